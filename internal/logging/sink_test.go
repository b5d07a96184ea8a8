// pattern: Imperative Shell

package logging

import (
	"testing"
	"time"
)

func TestChannelSink_Write(t *testing.T) {
	sink := NewChannelSink(4)
	defer func() { _ = sink.Close() }()

	line := `{"level":"warn","ts":1700000000.5,"logger":"assetdb","msg":"meta unreadable","path":"Assets/A.meta","caller":"x.go:1"}`
	n, err := sink.Write([]byte(line))
	if err != nil || n != len(line) {
		t.Fatalf("Write() = %d, %v", n, err)
	}

	entry := <-sink.Entries()
	if entry.Level != "WARN" || entry.Scope != "assetdb" || entry.Message != "meta unreadable" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["path"] != "Assets/A.meta" {
		t.Errorf("Fields[path] = %v", entry.Fields["path"])
	}
	if _, ok := entry.Fields["caller"]; ok {
		t.Error("caller should not be kept in fields")
	}
	if want := time.Unix(1700000000, 500000000); !entry.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", entry.Timestamp, want)
	}
}

func TestChannelSink_InvalidJSONIgnored(t *testing.T) {
	sink := NewChannelSink(1)
	defer func() { _ = sink.Close() }()

	if _, err := sink.Write([]byte("not json")); err != nil {
		t.Errorf("Write() error = %v", err)
	}
	select {
	case e := <-sink.Entries():
		t.Errorf("unexpected entry %+v", e)
	default:
	}
}

func TestChannelSink_DropsOldestWhenFull(t *testing.T) {
	sink := NewChannelSink(2)
	defer func() { _ = sink.Close() }()

	for _, msg := range []string{"one", "two", "three"} {
		_, _ = sink.Write([]byte(`{"level":"info","msg":"` + msg + `"}`))
	}

	first := <-sink.Entries()
	second := <-sink.Entries()
	if first.Message != "two" || second.Message != "three" {
		t.Errorf("got %q, %q; want two, three", first.Message, second.Message)
	}
}

func TestChannelSink_Close(t *testing.T) {
	sink := NewChannelSink(1)
	_ = sink.Close()
	_ = sink.Close()

	if _, err := sink.Write([]byte(`{"msg":"late"}`)); err == nil {
		t.Error("expected error writing to closed sink")
	}
	if _, ok := <-sink.Entries(); ok {
		t.Error("channel should be closed")
	}
}

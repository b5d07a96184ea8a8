// pattern: Functional Core

package unityyaml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Object is one serialized object: its header and the YAML documents in its body.
// A body usually holds exactly one document. Err is set when the body could not be
// fully decoded; Documents then holds whatever decoded before the failure.
type Object struct {
	Header    Header
	Documents []*yaml.Node
	Err       error
}

// Objects splits a Unity YAML stream on object headers and decodes each body lazily.
// Lines before the first header (%YAML and %TAG directives) are ignored.
// A stream without any header yields nothing.
func Objects(r io.Reader) iter.Seq[Object] {
	return func(yield func(Object) bool) {
		br := bufio.NewReader(r)
		var body strings.Builder
		var header string
		seen := false

		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				text := strings.TrimRight(line, "\r\n")
				if IsHeader(text) {
					if seen {
						if !yield(decodeObject(header, body.String())) {
							return
						}
						body.Reset()
					}
					header = text
					seen = true
				} else if seen {
					body.WriteString(text)
					body.WriteByte('\n')
				}
			}
			if err != nil {
				break
			}
		}

		if !seen {
			return
		}
		yield(decodeObject(header, body.String()))
	}
}

// ObjectsFromFile opens path and returns its objects.
// The file is read fully so the returned sequence does not hold an open handle.
func ObjectsFromFile(path string) (iter.Seq[Object], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", path, err)
	}

	return Objects(strings.NewReader(string(data))), nil
}

func decodeObject(headerLine, body string) Object {
	h, _ := ParseHeader(headerLine)
	docs, err := decodeDocuments(body)
	return Object{Header: h, Documents: docs, Err: err}
}

// decodeDocuments decodes every YAML document in text.
func decodeDocuments(text string) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return docs, fmt.Errorf("decode object body: %w", err)
		}
		docs = append(docs, &doc)
	}
}

// Root returns the top node of a decoded document, unwrapping the document node.
func Root(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

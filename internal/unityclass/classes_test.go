package unityclass

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "GameObject"},
		{4, "Transform"},
		{114, "MonoBehaviour"},
		{1001, "PrefabInstance"},
		{1839735485, "Tilemap"},
		{999999, ""},
	}
	for _, tt := range tests {
		if got := Name(tt.id); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	if got := (Lookup{}).ClassName(108); got != "Light" {
		t.Errorf("ClassName(108) = %q, want Light", got)
	}
}

func TestClassIcon(t *testing.T) {
	if got := ClassIcon(PrefabInstance); got != IconPrefab {
		t.Errorf("ClassIcon(PrefabInstance) = %q", got)
	}
	if got := ClassIcon(123456); got != IconDefault {
		t.Errorf("ClassIcon(unknown) = %q, want default", got)
	}
}

func TestPathIcon(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Assets/Cube.prefab", IconPrefab},
		{"Assets/Scripts/Player.cs.meta", IconScript},
		{"Assets/Textures/Hero.PNG", IconTexture},
		{"Assets/Scripts", IconFolder},
		{"Assets/readme.txt", IconFile},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PathIcon(tt.path); got != tt.want {
			t.Errorf("PathIcon(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

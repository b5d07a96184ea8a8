// pattern: Functional Core

package unityclass

import (
	"path/filepath"
	"strings"
)

// Glyphs used in place of editor thumbnails.
const (
	IconDefault    = "◆"
	IconGameObject = "▣"
	IconTransform  = "⊕"
	IconScript     = "§"
	IconPrefab     = "⬢"
	IconCamera     = "◉"
	IconLight      = "☀"
	IconMaterial   = "◍"
	IconMesh       = "△"
	IconTexture    = "▦"
	IconAudio      = "♪"
	IconAnimation  = "↻"
	IconCollider   = "□"
	IconUI         = "▭"
	IconScene      = "◎"
	IconFolder     = "▸"
	IconFile       = "·"
	IconSettings   = "⚙"
)

var classIcons = map[int]string{
	GameObject:     IconGameObject,
	Transform:      IconTransform,
	RectTransform:  IconTransform,
	MonoBehaviour:  IconScript,
	MonoScript:     IconScript,
	PrefabInstance: IconPrefab,
	20:             IconCamera,
	108:            IconLight,
	21:             IconMaterial,
	33:             IconMesh,
	43:             IconMesh,
	23:             IconMesh,
	137:            IconMesh,
	28:             IconTexture,
	213:            IconTexture,
	212:            IconTexture,
	82:             IconAudio,
	83:             IconAudio,
	74:             IconAnimation,
	91:             IconAnimation,
	95:             IconAnimation,
	65:             IconCollider,
	135:            IconCollider,
	136:            IconCollider,
	64:             IconCollider,
	61:             IconCollider,
	223:            IconUI,
	222:            IconUI,
	225:            IconUI,
	1032:           IconScene,
}

var extIcons = map[string]string{
	".prefab":     IconPrefab,
	".unity":      IconScene,
	".cs":         IconScript,
	".dll":        IconScript,
	".mat":        IconMaterial,
	".fbx":        IconMesh,
	".obj":        IconMesh,
	".png":        IconTexture,
	".jpg":        IconTexture,
	".psd":        IconTexture,
	".tga":        IconTexture,
	".wav":        IconAudio,
	".mp3":        IconAudio,
	".ogg":        IconAudio,
	".anim":       IconAnimation,
	".controller": IconAnimation,
	".asset":      IconSettings,
}

// ClassIcon returns the glyph for a class ID.
func ClassIcon(classID int) string {
	if icon, ok := classIcons[classID]; ok {
		return icon
	}
	return IconDefault
}

// PathIcon returns the glyph for an asset path, looking through a trailing ".meta".
func PathIcon(path string) string {
	if path == "" {
		return ""
	}
	p := strings.TrimSuffix(path, ".meta")
	if icon, ok := extIcons[strings.ToLower(filepath.Ext(p))]; ok {
		return icon
	}
	if filepath.Ext(p) == "" {
		return IconFolder
	}
	return IconFile
}

// Glyphs implements the tree builder's icon capability without an asset database.
// Asset GUIDs cannot be resolved, so AssetIcon always returns "".
type Glyphs struct{}

func (Glyphs) ClassIcon(classID int) string { return ClassIcon(classID) }

func (Glyphs) AssetIcon(string) string { return "" }

func (Glyphs) PathIcon(path string) string { return PathIcon(path) }

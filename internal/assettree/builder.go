// pattern: Imperative Shell

package assettree

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"assettree/internal/logging"
	"assettree/internal/unityclass"
	"assettree/internal/unityyaml"
)

// maxDepth bounds recursion through self-referencing YAML aliases.
const maxDepth = 512

const (
	sourcePrefabGUIDPath = "PrefabInstance/m_SourcePrefab/guid"
	scriptPath           = "MonoBehaviour/m_Script"
	scriptGUIDPath       = "MonoBehaviour/m_Script/guid"
)

// Builder converts asset files into element trees. Any capability may be nil;
// lookups against a nil capability resolve to "".
type Builder struct {
	Assets  AssetResolver
	Icons   IconProvider
	Classes ClassNamer
	Logger  *logging.ScopedLogger
}

// counter hands out element IDs for one build pass.
type counter struct {
	next int
}

func (c *counter) take() int {
	id := c.next
	c.next++
	return id
}

// BuildFile builds the tree for one asset file. The result holds a single file root
// whose children are the file's objects in header order. IDs start at startID;
// the returned nextID continues the sequence for a following build.
// A missing or unreadable file yields a root without children.
func (b *Builder) BuildFile(startID int, path string) (elems []*Element, nextID int) {
	c := &counter{next: startID}
	root := b.buildFile(c, path)
	return []*Element{root}, c.next
}

// BuildFiles builds every path into one root list with a continuing ID sequence.
// A folder with a sibling ".meta" file is shown through that meta file.
func (b *Builder) BuildFiles(startID int, paths []string) (elems []*Element, nextID int) {
	c := &counter{next: startID}
	for _, p := range paths {
		elems = append(elems, b.buildFile(c, ResolveInspectable(p)))
	}
	return elems, c.next
}

// ResolveInspectable maps a folder to its ".meta" file when one exists.
func ResolveInspectable(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path
	}
	meta := strings.TrimRight(path, string(filepath.Separator)) + ".meta"
	if _, err := os.Stat(meta); err == nil {
		return meta
	}
	return path
}

func (b *Builder) buildFile(c *counter, path string) *Element {
	logger := b.logger().With("path", path)
	root := &Element{
		ID:        c.take(),
		Name:      filepath.Base(path),
		Icon:      b.pathIcon(path),
		AssetPath: path,
	}

	objects, err := unityyaml.ObjectsFromFile(path)
	if err != nil {
		logger.Warn("asset not readable", "error", err)
		return root
	}

	for obj := range objects {
		if obj.Err != nil {
			logger.Warn("object body not fully decoded", "header", obj.Header.Line, "error", obj.Err)
		}
		root.Children = append(root.Children, b.buildObject(c, obj))
	}

	logger.Debug("asset tree built", "objects", len(root.Children), "next_id", c.next)
	return root
}

func (b *Builder) buildObject(c *counter, obj unityyaml.Object) *Element {
	h := obj.Header
	classIcon := b.classIcon(h.ClassID)
	el := &Element{
		ID:   c.take(),
		Name: h.Line,
		Icon: classIcon,
		Object: &ObjectInfo{
			ClassID:   h.ClassID,
			FileID:    h.FileID,
			ClassName: b.className(h.ClassID),
			Stripped:  h.Stripped,
		},
	}

	for _, doc := range obj.Documents {
		el.Children = append(el.Children, b.convert(c, el, el, unityyaml.Root(doc), 0)...)
	}

	switch h.ClassID {
	case unityclass.PrefabInstance:
		el.Icon = classIcon
		if icon := b.assetIcon(Value(el, sourcePrefabGUIDPath)); icon != "" {
			el.Icon = icon
		}
	case unityclass.MonoBehaviour:
		el.Icon = classIcon
		if icon := Icon(el, scriptPath); icon != "" {
			el.Icon = icon
		}
		el.Object.ScriptClassName = b.scriptClassName(Value(el, scriptGUIDPath))
	}

	return el
}

// convert turns one YAML node into elements. owner is the element whose children
// the result becomes; object is the enclosing object root.
func (b *Builder) convert(c *counter, owner, object *Element, n *yaml.Node, depth int) []*Element {
	if n == nil || depth > maxDepth {
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		return b.convert(c, owner, object, unityyaml.Root(n), depth+1)
	case yaml.AliasNode:
		return b.convert(c, owner, object, n.Alias, depth+1)
	case yaml.ScalarNode:
		return []*Element{{ID: c.take(), Name: n.Value}}
	case yaml.SequenceNode:
		var out []*Element
		for _, item := range n.Content {
			out = append(out, b.convert(c, owner, object, item, depth+1)...)
		}
		return out
	case yaml.MappingNode:
		var out []*Element
		for i := 0; i+1 < len(n.Content); i += 2 {
			out = append(out, b.convertEntry(c, owner, object, n.Content[i], n.Content[i+1], depth))
		}
		return out
	}
	return nil
}

func (b *Builder) convertEntry(c *counter, owner, object *Element, key, value *yaml.Node, depth int) *Element {
	el := &Element{ID: c.take(), Name: keyName(key)}

	value = unalias(value)
	if value != nil && value.Kind == yaml.ScalarNode {
		el.Value = value.Value
		if el.Name == guidKey {
			b.applyGUID(el, owner, object, value.Value)
		}
		return el
	}

	el.Children = b.convert(c, el, object, value, depth+1)
	return el
}

// applyGUID resolves a guid onto the guid element, its owner and the object root.
// Later guids in the same object overwrite earlier ones.
func (b *Builder) applyGUID(guidEl, owner, object *Element, guid string) {
	path := b.assetPath(guid)
	icon := b.assetIcon(guid)
	guidEl.AssetPath = path

	for _, target := range []*Element{owner, object} {
		if target == nil {
			continue
		}
		if icon != "" {
			target.Icon = icon
		}
		if path != "" {
			target.AssetPath = path
		}
	}
}

func keyName(key *yaml.Node) string {
	key = unalias(key)
	if key == nil {
		return ""
	}
	if key.Kind == yaml.ScalarNode {
		return key.Value
	}
	out, err := yaml.Marshal(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func unalias(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxDepth; i++ {
		n = n.Alias
	}
	return n
}

func (b *Builder) logger() *logging.ScopedLogger {
	if b.Logger == nil {
		return logging.NopLogger()
	}
	return b.Logger
}

func (b *Builder) assetPath(guid string) string {
	if b.Assets == nil || guid == "" {
		return ""
	}
	return b.Assets.AssetPath(guid)
}

func (b *Builder) scriptClassName(guid string) string {
	if b.Assets == nil || guid == "" {
		return ""
	}
	return b.Assets.ScriptClassName(guid)
}

func (b *Builder) className(classID int) string {
	if b.Classes == nil {
		return ""
	}
	return b.Classes.ClassName(classID)
}

func (b *Builder) classIcon(classID int) string {
	if b.Icons == nil {
		return ""
	}
	return b.Icons.ClassIcon(classID)
}

func (b *Builder) assetIcon(guid string) string {
	if b.Icons == nil || guid == "" {
		return ""
	}
	return b.Icons.AssetIcon(guid)
}

func (b *Builder) pathIcon(path string) string {
	if b.Icons == nil {
		return ""
	}
	return b.Icons.PathIcon(path)
}

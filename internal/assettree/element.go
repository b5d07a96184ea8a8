// pattern: Functional Core

// Package assettree turns Unity YAML assets into labeled trees for display.
package assettree

// DisplayOption is a bit set controlling how element labels are rendered.
type DisplayOption uint8

const (
	Default            DisplayOption = 0
	ClassIDToClassName DisplayOption = 1 << 0
	GUIDToAssetPath    DisplayOption = 1 << 1

	// optionCount is the number of distinct option combinations.
	optionCount = 4
)

// Has reports whether every bit of flag is set in o.
func (o DisplayOption) Has(flag DisplayOption) bool {
	return o&flag == flag
}

// With returns o with flag set or cleared.
func (o DisplayOption) With(flag DisplayOption, on bool) DisplayOption {
	if on {
		return o | flag
	}
	return o &^ flag
}

// Element is one node of an asset tree: a file, an object, a YAML key or a scalar.
type Element struct {
	ID        int
	Name      string
	Value     string
	Children  []*Element
	Icon      string
	AssetPath string

	// Object is set on object roots, the children of a file root.
	Object *ObjectInfo

	names nameCache
}

// ObjectInfo describes the serialized object an object-root element was built from.
type ObjectInfo struct {
	ClassID         int
	FileID          string
	ClassName       string
	ScriptClassName string // MonoBehaviour script class, when resolvable
	Stripped        bool
}

// IsObject reports whether e is an object root.
func (e *Element) IsObject() bool {
	return e != nil && e.Object != nil
}

// HasChildren reports whether e has any children.
func (e *Element) HasChildren() bool {
	return e != nil && len(e.Children) > 0
}

// Walk visits e and its descendants depth-first in child order.
// Returning false from fn skips the element's children.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(*Element, int) bool, depth int) {
	if e == nil {
		return
	}
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}

// nameCache memoizes one display label per option combination.
type nameCache struct {
	labels [optionCount]string
	set    [optionCount]bool
}

func (c *nameCache) get(opt DisplayOption, compute func() string) string {
	i := int(opt) % optionCount
	if c.set[i] {
		return c.labels[i]
	}
	label := compute()
	c.labels[i] = label
	c.set[i] = true
	return label
}

// pattern: Functional Core

package assettree

import (
	"strconv"
	"strings"
)

const guidKey = "guid"

// DisplayName returns the element's label under opt. Labels are computed once per
// option value and reused afterwards.
func (e *Element) DisplayName(opt DisplayOption) string {
	if e == nil {
		return ""
	}
	return e.names.get(opt, func() string { return e.formatName(opt) })
}

func (e *Element) formatName(opt DisplayOption) string {
	if e.Object != nil && opt.Has(ClassIDToClassName) {
		return e.objectName()
	}
	return e.baseName(opt)
}

func (e *Element) baseName(opt DisplayOption) string {
	if opt.Has(GUIDToAssetPath) && e.Name == guidKey && e.AssetPath != "" {
		return e.Name + ": " + e.AssetPath
	}
	if e.Value == "" {
		return e.Name
	}
	return e.Name + ": " + e.Value
}

// objectName substitutes the class ID token in the header with the class name.
func (e *Element) objectName() string {
	name := e.Object.ClassName
	if e.Object.ScriptClassName != "" {
		name = e.Object.ScriptClassName
	}
	if name == "" {
		return e.baseName(Default)
	}
	token := "!u!" + strconv.Itoa(e.Object.ClassID) + " "
	return strings.Replace(e.Name, token, name+" ", 1)
}

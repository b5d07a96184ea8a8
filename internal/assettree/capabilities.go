// pattern: Functional Core

package assettree

// AssetResolver resolves GUIDs against the project's asset database.
type AssetResolver interface {
	// AssetPath returns the project-relative path for guid, or "".
	AssetPath(guid string) string
	// ScriptClassName returns the class declared by the script asset guid, or "".
	ScriptClassName(guid string) string
}

// IconProvider supplies icon references for classes, assets and paths.
// An empty string means no icon.
type IconProvider interface {
	ClassIcon(classID int) string
	AssetIcon(guid string) string
	PathIcon(path string) string
}

// ClassNamer maps persistent class IDs to class names.
type ClassNamer interface {
	ClassName(classID int) string
}

package assettree

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"assettree/internal/logging"
)

// fakeAssets resolves a fixed GUID table and counts calls.
type fakeAssets struct {
	paths   map[string]string
	scripts map[string]string
	calls   int
}

func (f *fakeAssets) AssetPath(guid string) string {
	f.calls++
	return f.paths[guid]
}

func (f *fakeAssets) ScriptClassName(guid string) string {
	f.calls++
	return f.scripts[guid]
}

type fakeIcons struct {
	assets map[string]string
}

func (f *fakeIcons) ClassIcon(classID int) string { return "class-" + strconv.Itoa(classID) }
func (f *fakeIcons) AssetIcon(guid string) string { return f.assets[guid] }
func (f *fakeIcons) PathIcon(path string) string  { return "path:" + filepath.Base(path) }

type fakeClasses struct{}

func (fakeClasses) ClassName(classID int) string {
	switch classID {
	case 1:
		return "GameObject"
	case 4:
		return "Transform"
	case 114:
		return "MonoBehaviour"
	case 1001:
		return "PrefabInstance"
	}
	return ""
}

const (
	scriptGUID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	prefabGUID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	meshGUID   = "cccccccccccccccccccccccccccccccc"
)

const simpleAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &100
GameObject:
  m_Name: Cube
  m_Component:
  - component: {fileID: 400}
--- !u!4 &400
Transform:
  m_Children: []
`

const scriptedAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!114 &11400000
MonoBehaviour:
  m_Enabled: 1
  m_Script: {fileID: 11500000, guid: ` + scriptGUID + `, type: 3}
  speed: 4.5
--- !u!1001 &200
PrefabInstance:
  m_Modification:
    m_TransformParent: {fileID: 0}
  m_SourcePrefab: {fileID: 100100000, guid: ` + prefabGUID + `, type: 3}
--- !u!33 &300
MeshFilter:
  m_Mesh: {fileID: 10202, guid: ` + meshGUID + `, type: 3}
`

func writeAsset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}
	return path
}

func newTestBuilder() (*Builder, *fakeAssets) {
	assets := &fakeAssets{
		paths: map[string]string{
			scriptGUID: "Assets/Scripts/Player.cs",
			prefabGUID: "Assets/Prefabs/Enemy.prefab",
			meshGUID:   "Assets/Models/Rock.fbx",
		},
		scripts: map[string]string{
			scriptGUID: "Player",
		},
	}
	icons := &fakeIcons{assets: map[string]string{
		scriptGUID: "script-icon",
		prefabGUID: "prefab-icon",
		meshGUID:   "mesh-icon",
	}}
	return &Builder{Assets: assets, Icons: icons, Classes: fakeClasses{}}, assets
}

func TestBuildFile_ObjectRootsInHeaderOrder(t *testing.T) {
	b, _ := newTestBuilder()
	path := writeAsset(t, "Cube.prefab", simpleAsset)

	elems, next := b.BuildFile(1, path)

	if len(elems) != 1 {
		t.Fatalf("expected 1 file root, got %d", len(elems))
	}
	root := elems[0]
	if root.Name != "Cube.prefab" {
		t.Errorf("root name = %q", root.Name)
	}
	if root.AssetPath != path {
		t.Errorf("root path = %q, want %q", root.AssetPath, path)
	}
	if root.Icon != "path:Cube.prefab" {
		t.Errorf("root icon = %q", root.Icon)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 object roots, got %d", len(root.Children))
	}
	if root.Children[0].Name != "--- !u!1 &100" || root.Children[1].Name != "--- !u!4 &400" {
		t.Errorf("object roots out of order: %q, %q", root.Children[0].Name, root.Children[1].Name)
	}
	if next != 11 {
		t.Errorf("next id = %d, want 11", next)
	}
}

func TestBuildFile_ObjectInfo(t *testing.T) {
	b, _ := newTestBuilder()
	elems, _ := b.BuildFile(1, writeAsset(t, "Cube.prefab", simpleAsset))

	obj := elems[0].Children[0]
	if !obj.IsObject() {
		t.Fatal("first child should be an object root")
	}
	if obj.Object.ClassID != 1 || obj.Object.FileID != "100" || obj.Object.ClassName != "GameObject" {
		t.Errorf("object info = %+v", obj.Object)
	}
	if obj.Icon != "class-1" {
		t.Errorf("object icon = %q, want class-1", obj.Icon)
	}
	if elems[0].IsObject() {
		t.Error("file root should not be an object root")
	}
}

func TestBuildFile_IDsUniqueAndMonotonic(t *testing.T) {
	b, _ := newTestBuilder()
	elems, next := b.BuildFile(10, writeAsset(t, "Cube.prefab", simpleAsset))

	prev := 9
	count := 0
	elems[0].Walk(func(e *Element, _ int) bool {
		if e.ID != prev+1 {
			t.Errorf("id %d follows %d", e.ID, prev)
		}
		prev = e.ID
		count++
		return true
	})
	if next != 10+count {
		t.Errorf("next = %d, want %d", next, 10+count)
	}
}

func TestBuildFile_ScalarValueInlined(t *testing.T) {
	b, _ := newTestBuilder()
	elems, _ := b.BuildFile(1, writeAsset(t, "Cube.prefab", simpleAsset))

	name := Find(elems[0].Children[0], "GameObject/m_Name")
	if name == nil {
		t.Fatal("m_Name not found")
	}
	if name.Value != "Cube" {
		t.Errorf("m_Name value = %q, want Cube", name.Value)
	}
	if len(name.Children) != 0 {
		t.Errorf("scalar entry should have no children, got %d", len(name.Children))
	}
}

func TestBuildFile_NestedValueBecomesChildren(t *testing.T) {
	b, _ := newTestBuilder()
	elems, _ := b.BuildFile(1, writeAsset(t, "Cube.prefab", simpleAsset))

	comps := Find(elems[0].Children[0], "GameObject/m_Component")
	if comps == nil {
		t.Fatal("m_Component not found")
	}
	if comps.Value != "" {
		t.Errorf("nested entry value = %q, want empty", comps.Value)
	}
	// The sequence is flattened: its single mapping contributes "component" directly.
	if len(comps.Children) != 1 || comps.Children[0].Name != "component" {
		t.Fatalf("m_Component children = %+v", comps.Children)
	}
	if got := Value(comps, "component/fileID"); got != "400" {
		t.Errorf("component/fileID = %q, want 400", got)
	}

	children := Find(elems[0].Children[1], "Transform/m_Children")
	if children == nil || len(children.Children) != 0 || children.Value != "" {
		t.Errorf("empty sequence entry = %+v", children)
	}
}

func TestBuildFile_ScalarSequenceItemsAreLeaves(t *testing.T) {
	b, _ := newTestBuilder()
	path := writeAsset(t, "Tags.asset", "--- !u!78 &1\nTagManager:\n  tags:\n  - Enemy\n  - Player\n")

	elems, _ := b.BuildFile(1, path)
	tags := Find(elems[0].Children[0], "TagManager/tags")
	if tags == nil || len(tags.Children) != 2 {
		t.Fatalf("tags = %+v", tags)
	}
	if tags.Children[0].Name != "Enemy" || tags.Children[1].Name != "Player" {
		t.Errorf("tag leaves = %q, %q", tags.Children[0].Name, tags.Children[1].Name)
	}
	if tags.Children[0].Value != "" || tags.Children[0].HasChildren() {
		t.Error("scalar sequence item should be a bare leaf")
	}
}

func TestBuildFile_GUIDResolution(t *testing.T) {
	b, _ := newTestBuilder()
	elems, _ := b.BuildFile(1, writeAsset(t, "Scene.unity", scriptedAsset))

	mesh := elems[0].Children[2]
	guid := Find(mesh, "MeshFilter/m_Mesh/guid")
	if guid == nil {
		t.Fatal("guid not found")
	}
	if guid.AssetPath != "Assets/Models/Rock.fbx" {
		t.Errorf("guid path = %q", guid.AssetPath)
	}
	if got := guid.DisplayName(GUIDToAssetPath); got != "guid: Assets/Models/Rock.fbx" {
		t.Errorf("resolved label = %q", got)
	}
	if got := guid.DisplayName(Default); got != "guid: "+meshGUID {
		t.Errorf("raw label = %q", got)
	}

	owner := Find(mesh, "MeshFilter/m_Mesh")
	if owner.Icon != "mesh-icon" || owner.AssetPath != "Assets/Models/Rock.fbx" {
		t.Errorf("owner icon/path = %q, %q", owner.Icon, owner.AssetPath)
	}
	if mesh.Icon != "mesh-icon" || mesh.AssetPath != "Assets/Models/Rock.fbx" {
		t.Errorf("object root icon/path = %q, %q", mesh.Icon, mesh.AssetPath)
	}
}

func TestBuildFile_LastGUIDWins(t *testing.T) {
	b, _ := newTestBuilder()
	path := writeAsset(t, "Two.asset", "--- !u!114 &1\nMonoBehaviour:\n  a: {guid: "+meshGUID+"}\n  b: {guid: "+prefabGUID+"}\n")

	elems, _ := b.BuildFile(1, path)
	obj := elems[0].Children[0]
	if obj.AssetPath != "Assets/Prefabs/Enemy.prefab" {
		t.Errorf("object path = %q, want last guid's path", obj.AssetPath)
	}
}

func TestBuildFile_UnresolvedGUIDKeepsEarlierPath(t *testing.T) {
	b, _ := newTestBuilder()
	path := writeAsset(t, "Two.asset", "--- !u!33 &1\nMeshFilter:\n  a: {guid: "+meshGUID+"}\n  b: {guid: 0000000000000000f000000000000000}\n")

	elems, _ := b.BuildFile(1, path)
	obj := elems[0].Children[0]
	if obj.AssetPath != "Assets/Models/Rock.fbx" {
		t.Errorf("object path = %q", obj.AssetPath)
	}
	if obj.Icon != "mesh-icon" {
		t.Errorf("object icon = %q", obj.Icon)
	}
}

func TestBuildFile_MonoBehaviour(t *testing.T) {
	b, _ := newTestBuilder()
	elems, _ := b.BuildFile(1, writeAsset(t, "Scene.unity", scriptedAsset))

	mono := elems[0].Children[0]
	if mono.Icon != "script-icon" {
		t.Errorf("MonoBehaviour icon = %q, want script-icon", mono.Icon)
	}
	if mono.Object.ScriptClassName != "Player" {
		t.Errorf("ScriptClassName = %q, want Player", mono.Object.ScriptClassName)
	}
	if got := mono.DisplayName(ClassIDToClassName); got != "--- Player &11400000" {
		t.Errorf("label = %q", got)
	}
	if got := Value(mono, "MonoBehaviour/speed"); got != "4.5" {
		t.Errorf("speed = %q", got)
	}
}

func TestBuildFile_PrefabInstance(t *testing.T) {
	b, _ := newTestBuilder()
	elems, _ := b.BuildFile(1, writeAsset(t, "Scene.unity", scriptedAsset))

	inst := elems[0].Children[1]
	if inst.Icon != "prefab-icon" {
		t.Errorf("PrefabInstance icon = %q, want prefab-icon", inst.Icon)
	}
	if inst.AssetPath != "Assets/Prefabs/Enemy.prefab" {
		t.Errorf("PrefabInstance path = %q", inst.AssetPath)
	}
}

func TestBuildFile_PrefabInstanceFallsBackToClassIcon(t *testing.T) {
	b, _ := newTestBuilder()
	path := writeAsset(t, "Scene.unity", "--- !u!1001 &1\nPrefabInstance:\n  m_SourcePrefab: {fileID: 0}\n")

	elems, _ := b.BuildFile(1, path)
	if got := elems[0].Children[0].Icon; got != "class-1001" {
		t.Errorf("icon = %q, want class-1001", got)
	}
}

func TestBuildFile_MissingFile(t *testing.T) {
	tm := logging.NewTestLogManager(10)
	defer func() { _ = tm.Close() }()

	b, _ := newTestBuilder()
	b.Logger = tm.For("tree")

	missing := filepath.Join(t.TempDir(), "gone.asset")
	elems, next := b.BuildFile(5, missing)
	if len(elems) != 1 || len(elems[0].Children) != 0 {
		t.Fatalf("expected childless root, got %+v", elems)
	}
	if next != 6 {
		t.Errorf("next = %d, want 6", next)
	}

	select {
	case entry := <-tm.Channel():
		if entry.Level != "WARN" {
			t.Errorf("expected WARN entry, got %s", entry.Level)
		}
		if entry.Fields["path"] != missing {
			t.Errorf("path field = %v, want %s", entry.Fields["path"], missing)
		}
	default:
		t.Error("expected a warning for the missing file")
	}
}

func TestBuildFile_NilCapabilities(t *testing.T) {
	b := &Builder{}
	elems, _ := b.BuildFile(1, writeAsset(t, "Scene.unity", scriptedAsset))

	root := elems[0]
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(root.Children))
	}
	for _, obj := range root.Children {
		if obj.Icon != "" || obj.Object.ClassName != "" {
			t.Errorf("unexpected enrichment without capabilities: %+v", obj.Object)
		}
	}
	if got := Value(root.Children[0], "MonoBehaviour/m_Script/guid"); got != scriptGUID {
		t.Errorf("guid = %q", got)
	}
}

func TestBuildFile_DecodeErrorKeepsObject(t *testing.T) {
	b, _ := newTestBuilder()
	path := writeAsset(t, "Broken.asset", "--- !u!1 &1\nkey: [oops\n--- !u!4 &2\nTransform:\n  m_Father: {fileID: 0}\n")

	elems, _ := b.BuildFile(1, path)
	if len(elems[0].Children) != 2 {
		t.Fatalf("expected both objects, got %d", len(elems[0].Children))
	}
	if got := Value(elems[0].Children[1], "Transform/m_Father/fileID"); got != "0" {
		t.Errorf("m_Father/fileID = %q", got)
	}
}

func TestBuildFiles_ContinuesIDs(t *testing.T) {
	b, _ := newTestBuilder()
	a := writeAsset(t, "A.prefab", simpleAsset)
	c := writeAsset(t, "B.prefab", simpleAsset)

	elems, next := b.BuildFiles(1, []string{a, c})
	if len(elems) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(elems))
	}
	if elems[1].ID != 11 {
		t.Errorf("second root id = %d, want 11", elems[1].ID)
	}
	if next != 21 {
		t.Errorf("next = %d, want 21", next)
	}
}

func TestBuildFiles_FolderUsesMeta(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "Prefabs")
	if err := os.Mkdir(folder, 0755); err != nil {
		t.Fatal(err)
	}
	meta := "fileFormatVersion: 2\nguid: " + prefabGUID + "\nfolderAsset: yes\n"
	if err := os.WriteFile(folder+".meta", []byte(meta), 0644); err != nil {
		t.Fatal(err)
	}

	if got := ResolveInspectable(folder); got != folder+".meta" {
		t.Errorf("ResolveInspectable = %q", got)
	}

	b, _ := newTestBuilder()
	elems, _ := b.BuildFiles(1, []string{folder})
	if elems[0].Name != "Prefabs.meta" {
		t.Errorf("root name = %q, want Prefabs.meta", elems[0].Name)
	}
	// Meta files carry no object headers.
	if len(elems[0].Children) != 0 {
		t.Errorf("expected no objects for a meta file, got %d", len(elems[0].Children))
	}
}

func TestResolveInspectable_PlainFile(t *testing.T) {
	path := writeAsset(t, "A.prefab", simpleAsset)
	if got := ResolveInspectable(path); got != path {
		t.Errorf("ResolveInspectable = %q, want %q", got, path)
	}
}

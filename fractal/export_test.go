package fractal

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/fractal_browser/utils/fbxbuilder"
	"github.com/mogaika/fractal_browser/utils/gltfutils"
)

func TestExportGLTF(t *testing.T) {
	f := mustBuild(t, DefaultOptions(3))
	if err := f.Tick(0.5, DEFAULT_SPIN); err != nil {
		t.Fatal(err)
	}

	doc := gltfutils.NewDocument()
	rootIdx := f.ExportGLTF(doc, "Fractal")

	if len(doc.Nodes) != 32 {
		t.Fatalf("got %d nodes; expected 32", len(doc.Nodes))
	}
	root := doc.Nodes[rootIdx]
	if root.Name != "Fractal" || len(root.Children) != 31 {
		t.Fatalf("root %q has %d children", root.Name, len(root.Children))
	}

	leaf := doc.Nodes[root.Children[30]]
	part := f.Levels[2][24]
	if leaf.Name != "Fractal Part L2 C4" {
		t.Errorf("last node name %q", leaf.Name)
	}
	if !vecNear(mgl32.Vec3(leaf.Translation), part.WorldPosition) {
		t.Errorf("last node translation %v; expected %v", leaf.Translation, part.WorldPosition)
	}
	if leaf.Scale != [3]float32{0.25, 0.25, 0.25} {
		t.Errorf("last node scale %v", leaf.Scale)
	}

	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Errorf("output is not a glb")
	}
	if len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0] != rootIdx {
		t.Errorf("scene nodes %v; expected only root", doc.Scenes[0].Nodes)
	}
}

func TestExportFbx(t *testing.T) {
	f := mustBuild(t, DefaultOptions(3))

	fb := fbxbuilder.NewFBXBuilder("fractal.fbx")
	rootId := f.ExportFbx(fb, "Fractal")
	if rootId == 0 {
		t.Fatalf("root id is zero")
	}
	// model and node attribute for root and every part
	if n := fb.ObjectsCount(); n != 2*32 {
		t.Errorf("got %d objects; expected %d", n, 2*32)
	}
}

package fractal

import (
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/fractal_browser/utils"
	"github.com/mogaika/fractal_browser/utils/fbxbuilder"
)

// ExportFbx adds a Null model per part, all parented to one root model.
// Returns root model id, connect it to 0 to place it into the scene.
func (f *Fractal) ExportFbx(fb *fbxbuilder.FBXBuilder, name string) int64 {
	rootId := fb.GenerateId()
	fb.AddObjects(nullModel(fb, rootId, name))

	f.Walk(func(level, index int, p *Part) {
		id := fb.GenerateId()
		model := nullModel(fb, id, PartName(level, p.ChildIndex))

		pos := p.WorldPosition
		rotation := utils.QuatToEulerDegrees(p.WorldRotation)
		scale := float64(p.Scale)

		model.GetOrAddNode(bfbx73.Properties70()).AddNodes(
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A+",
				float64(pos[0]), float64(pos[1]), float64(pos[2])),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A+",
				float64(rotation[0]), float64(rotation[1]), float64(rotation[2])),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A+", scale, scale, scale),
		)

		fb.AddObjects(model)
		fb.AddConnections(bfbx73.C("OO", id, rootId))
	})

	return rootId
}

func nullModel(fb *fbxbuilder.FBXBuilder, id int64, name string) *fbx.Node {
	model := bfbx73.Model(id, name+"\x00\x01Model", "Null").AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70(),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)

	attrId := fb.GenerateId()
	nodeAttribute := bfbx73.NodeAttribute(attrId, name+"\x00\x01NodeAttribute", "Null").AddNodes(
		bfbx73.TypeFlags("Null"),
	)
	fb.AddObjects(nodeAttribute)
	fb.AddConnections(bfbx73.C("OO", attrId, id))

	return model
}

func (f *Fractal) ExportFbxDefault(name string) *fbxbuilder.FBXBuilder {
	fb := fbxbuilder.NewFBXBuilder(name + ".fbx")
	fb.AddConnections(bfbx73.C("OO", f.ExportFbx(fb, name), 0))
	return fb
}

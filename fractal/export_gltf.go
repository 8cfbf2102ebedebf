package fractal

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// ExportGLTF appends the current world transforms as a flat list of nodes
// under one "Fractal" root and returns the root node index.
func (f *Fractal) ExportGLTF(doc *gltf.Document, name string) uint32 {
	root := &gltf.Node{Name: name}
	rootIdx := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, root)

	f.Walk(func(level, index int, p *Part) {
		q := p.WorldRotation.Normalize()
		node := &gltf.Node{
			Name:        PartName(level, p.ChildIndex),
			Translation: p.WorldPosition,
			Rotation:    [4]float32{q.V[0], q.V[1], q.V[2], q.W},
			Scale:       mgl32.Vec3{p.Scale, p.Scale, p.Scale},
		}
		root.Children = append(root.Children, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, node)
	})

	return rootIdx
}

package gltfutils

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// ExportBinary lists every node nobody references as child in the default
// scene and writes the document as .glb
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	prepareScene(doc)
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Failed to encode gltf")
	}
	return nil
}

func ExportJson(w io.Writer, doc *gltf.Document) error {
	prepareScene(doc)
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = false
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Failed to encode gltf")
	}
	return nil
}

func prepareScene(doc *gltf.Document) {
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "Root Scene"})
	}

	isChild := make(map[uint32]bool)
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			isChild[child] = true
		}
	}

	scene := doc.Scenes[0]
	scene.Nodes = scene.Nodes[:0]
	for iNode := range doc.Nodes {
		if !isChild[uint32(iNode)] {
			scene.Nodes = append(scene.Nodes, uint32(iNode))
		}
	}
}

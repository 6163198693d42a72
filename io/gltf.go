package io

import (
	"fmt"
	stdio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"cube-field/field"
	"cube-field/math"
	"cube-field/scene"
)

// BuildFieldDocument converts f to a glTF document. Each template becomes
// one mesh and one material; each instance becomes a node that references
// its template's mesh. All instance nodes hang under a single group node.
func BuildFieldDocument(f *field.Field) (*gltf.Document, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil field", field.ErrInvalidParameter)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	doc := gltf.NewDocument()
	meshIndex := make([]int, len(f.Templates))
	for i, t := range f.Templates {
		meshIndex[i] = writeTemplate(doc, t)
	}

	group := &gltf.Node{
		Name:     scene.FieldNodeName,
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
		Children: make([]int, 0, len(f.Instances)),
	}
	for i, inst := range f.Instances {
		q := math.QuaternionFromEuler(inst.Rotation)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        fmt.Sprintf("%s.%d", f.Templates[inst.Template].Name, i),
			Mesh:        gltf.Index(meshIndex[inst.Template]),
			Translation: [3]float64{float64(inst.Position.X), float64(inst.Position.Y), float64(inst.Position.Z)},
			Rotation:    [4]float64{float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)},
			Scale:       [3]float64{1, 1, 1},
		})
		group.Children = append(group.Children, len(doc.Nodes)-1)
	}
	doc.Nodes = append(doc.Nodes, group)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return doc, nil
}

// writeTemplate appends the box geometry and material of t and returns the
// mesh index.
func writeTemplate(doc *gltf.Document, t field.Template) int {
	box := scene.TemplateMesh(t)
	positions := make([][3]float32, len(box.Vertices))
	normals := make([][3]float32, len(box.Vertices))
	for i, v := range box.Vertices {
		positions[i] = v.Position.Array()
		normals[i] = v.Normal.Array()
	}

	m := t.Material
	alpha := gltf.AlphaOpaque
	if m.Translucent() {
		alpha = gltf.AlphaBlend
	}
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        m.Name,
		AlphaMode:   alpha,
		DoubleSided: m.Translucent(),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{float64(m.Color.R), float64(m.Color.G), float64(m.Color.B), float64(m.Opacity)},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
	})
	material := len(doc.Materials) - 1

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: t.Name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, box.Indices)),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
			Material: gltf.Index(material),
		}},
	})
	return len(doc.Meshes) - 1
}

// ExportFieldGLTF writes f as glTF 2.0: a binary .glb stream when binary is
// set, otherwise JSON with the buffer embedded as a data URI.
func ExportFieldGLTF(w stdio.Writer, f *field.Field, binary bool) error {
	doc, err := BuildFieldDocument(f)
	if err != nil {
		return err
	}
	if !binary {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode gltf: %w", err)
	}
	return nil
}

// SaveFieldGLTF writes f to path; a .glb extension selects the binary
// container, anything else JSON.
func SaveFieldGLTF(path string, f *field.Field) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	binary := strings.EqualFold(filepath.Ext(path), ".glb")
	if err := ExportFieldGLTF(file, f, binary); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

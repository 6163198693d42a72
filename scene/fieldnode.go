package scene

import (
	"fmt"

	"cube-field/field"
	"cube-field/math"
)

// FieldNodeName is the name of the group node built by NewFieldNode.
const FieldNodeName = "Field"

// TemplateMesh realizes a field template as a box mesh with its material.
func TemplateMesh(t field.Template) *Mesh {
	mesh := CreateBox(t.Shape.Width, t.Shape.Height, t.Shape.Depth)
	mesh.Name = t.Name
	mesh.Material = &Material{
		Name:        t.Material.Name,
		Albedo:      t.Material.Color,
		Opacity:     t.Material.Opacity,
		FlatShading: t.Material.FlatShading,
	}
	return mesh
}

// NewFieldNode builds a group node for f. Each template becomes one mesh
// shared by every child that places it, so the renderer uploads it once.
func NewFieldNode(f *field.Field) (*Node, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil field", field.ErrInvalidParameter)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	meshes := make([]*Mesh, len(f.Templates))
	for i, t := range f.Templates {
		meshes[i] = TemplateMesh(t)
	}

	group := NewNode(FieldNodeName)
	group.Children = make([]*Node, 0, len(f.Instances))
	for i, inst := range f.Instances {
		child := NewNode(fmt.Sprintf("%s.%d", f.Templates[inst.Template].Name, i))
		child.Mesh = meshes[inst.Template]
		child.Transform.Position = inst.Position
		child.Transform.Rotation = math.QuaternionFromEuler(inst.Rotation)
		group.AddChild(child)
	}
	return group, nil
}

// AddField realizes f and inserts the group under the scene root.
func (s *Scene) AddField(f *field.Field) (*Node, error) {
	group, err := NewFieldNode(f)
	if err != nil {
		return nil, err
	}
	s.AddNode(group)
	return group, nil
}

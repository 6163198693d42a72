package field

import (
	"fmt"

	"cube-field/core"
)

// Box is the shape descriptor shared by every instance of a template.
type Box struct {
	Width, Height, Depth float32
}

// Cube returns a Box with all three sides equal to size.
func Cube(size float32) Box {
	return Box{Width: size, Height: size, Depth: size}
}

// Material is the surface descriptor shared by every instance of a template.
type Material struct {
	Name        string
	Color       core.Color
	FlatShading bool
	Opacity     float32 // 1 = opaque
}

// Translucent reports whether the material needs alpha blending.
func (m Material) Translucent() bool {
	return m.Opacity < 1
}

// Template pairs one shape with one material. Templates are values: a Field
// holds its own copies and nothing mutates them after construction.
type Template struct {
	ID       int
	Name     string
	Shape    Box
	Material Material
}

// NewTemplate builds a template named after its material and size.
func NewTemplate(id int, shape Box, material Material) Template {
	return Template{
		ID:       id,
		Name:     fmt.Sprintf("%s-%gx%gx%g", material.Name, shape.Width, shape.Height, shape.Depth),
		Shape:    shape,
		Material: material,
	}
}

// Validate rejects degenerate shapes and out-of-range opacity.
func (t Template) Validate() error {
	if !(t.Shape.Width > 0) || !(t.Shape.Height > 0) || !(t.Shape.Depth > 0) {
		return fmt.Errorf("%w: template %q has non-positive box %gx%gx%g",
			ErrInvalidParameter, t.Name, t.Shape.Width, t.Shape.Height, t.Shape.Depth)
	}
	if !(t.Material.Opacity >= 0 && t.Material.Opacity <= 1) {
		return fmt.Errorf("%w: template %q opacity %g outside [0,1]",
			ErrInvalidParameter, t.Name, t.Material.Opacity)
	}
	return nil
}

// Palette colours and sizes of the demo scenes.
const (
	ColorRed    uint32 = 0xff3333
	ColorYellow uint32 = 0xfef59c
	ColorBlue   uint32 = 0xaddaff

	TranslucentOpacity float32 = 0.6

	SizeSmall  float32 = 0.8
	SizeMedium float32 = 2
	SizeLarge  float32 = 3
)

// Template indices returned by MakeTemplates.
const (
	TemplateRedSmall = iota
	TemplateYellowMedium
	TemplateBlueLarge
)

// Palette returns the three demo materials: translucent red, flat yellow and
// flat blue.
func Palette() []Material {
	return []Material{
		{Name: "red", Color: core.ColorFromHex(ColorRed), Opacity: TranslucentOpacity},
		{Name: "yellow", Color: core.ColorFromHex(ColorYellow), FlatShading: true, Opacity: 1},
		{Name: "blue", Color: core.ColorFromHex(ColorBlue), FlatShading: true, Opacity: 1},
	}
}

// Sizes returns the small, medium and large demo cubes.
func Sizes() []Box {
	return []Box{Cube(SizeSmall), Cube(SizeMedium), Cube(SizeLarge)}
}

// MakeTemplates pairs Palette and Sizes by index. Callers wanting another
// combination use NewTemplate with entries from either list.
func MakeTemplates() []Template {
	materials := Palette()
	sizes := Sizes()
	templates := make([]Template, len(materials))
	for i := range materials {
		templates[i] = NewTemplate(i, sizes[i], materials[i])
	}
	return templates
}

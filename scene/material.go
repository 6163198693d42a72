package scene

import "cube-field/core"

// Material describes surface appearance properties for a mesh.
type Material struct {
	Name        string
	Albedo      core.Color // base diffuse color
	Opacity     float32    // 1 = opaque; anything lower is alpha blended
	FlatShading bool       // light with per-face normals derived in the shader
	Unlit       bool       // skip lighting, output raw albedo
	DoubleSided bool       // disable back-face culling
	PointSize   float32    // pixel size for point meshes
}

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *Material {
	return &Material{
		Name:    "Default",
		Albedo:  core.ColorWhite,
		Opacity: 1,
	}
}

// NewMaterial creates an opaque lit material with the given albedo color.
func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{
		Name:    name,
		Albedo:  albedo,
		Opacity: 1,
	}
}

// NewPointsMaterial creates an unlit material for particle points.
func NewPointsMaterial(name string, color core.Color, size float32) *Material {
	return &Material{
		Name:      name,
		Albedo:    color,
		Opacity:   1,
		Unlit:     true,
		PointSize: size,
	}
}

// Translucent reports whether the material must be drawn after opaque
// geometry with blending enabled.
func (m *Material) Translucent() bool {
	return m.Opacity < 1
}

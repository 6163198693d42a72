package scene

import (
	"cube-field/core"
	"cube-field/math"
)

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawPoints                    // gl.POINTS
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32
	DrawMode   DrawMode

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
		m.HasLocalAABB = true
	}
	return m
}

func computeLocalAABB(vertices []core.Vertex) AABB {
	box := AABB{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		box.Min = box.Min.Min(v.Position)
		box.Max = box.Max.Max(v.Position)
	}
	return box
}

// Translucent reports whether the mesh material needs blending.
func (m *Mesh) Translucent() bool {
	return m.Material != nil && m.Material.Translucent()
}

// boxFaces lists each face of a unit box as its outward normal and four
// corners, wound counter-clockwise seen from outside.
var boxFaces = [6]struct {
	normal  math.Vec3
	corners [4]math.Vec3
}{
	{math.Vec3{X: 0, Y: 0, Z: 1}, [4]math.Vec3{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}},
	{math.Vec3{X: 0, Y: 0, Z: -1}, [4]math.Vec3{{X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}}},
	{math.Vec3{X: 0, Y: 1, Z: 0}, [4]math.Vec3{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}}},
	{math.Vec3{X: 0, Y: -1, Z: 0}, [4]math.Vec3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
	{math.Vec3{X: 1, Y: 0, Z: 0}, [4]math.Vec3{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}},
	{math.Vec3{X: -1, Y: 0, Z: 0}, [4]math.Vec3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}}},
}

// CreateBox returns a box centred on the origin with the given side
// lengths: 24 vertices so every face carries its own normal, 36 indices.
func CreateBox(width, height, depth float32) *Mesh {
	half := math.Vec3{X: width / 2, Y: height / 2, Z: depth / 2}
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, face := range boxFaces {
		base := uint32(len(vertices))
		for _, c := range face.corners {
			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: c.X * half.X, Y: c.Y * half.Y, Z: c.Z * half.Z},
				Normal:   face.normal,
				Color:    core.ColorWhite,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData("Box", vertices, indices)
}

// CreateCube is CreateBox with equal sides.
func CreateCube(size float32) *Mesh {
	m := CreateBox(size, size, size)
	m.Name = "Cube"
	return m
}

// CreatePoints returns an unindexed point cloud drawn with DrawPoints.
func CreatePoints(points []math.Vec3, color core.Color) *Mesh {
	vertices := make([]core.Vertex, len(points))
	for i, p := range points {
		vertices[i] = core.Vertex{Position: p, Normal: math.Vec3Up, Color: color}
	}
	m := CreateMeshFromData("Points", vertices, nil)
	m.DrawMode = DrawPoints
	return m
}

package scene

import (
	"cube-field/core"
	"cube-field/math"
)

// Scene manages a collection of nodes and the active camera
type Scene struct {
	Root       *Node
	Camera     *Camera
	Lights     []*Light
	Background core.Color
	Fog        Fog
}

// LightType selects how a Light contributes to shading.
type LightType int

const (
	// LightDirectional shines along Direction from infinitely far away.
	LightDirectional LightType = iota
	// LightHemisphere blends Color from above and GroundColor from below
	// according to the surface normal.
	LightHemisphere
)

// Light represents a light source
type Light struct {
	Type        LightType
	Direction   math.Vec3 // directional only; points from the light into the scene
	Color       core.Color
	GroundColor core.Color // hemisphere only
	Intensity   float32
}

// Fog fades geometry toward Color linearly between Near and Far.
type Fog struct {
	Enabled   bool
	Color     core.Color
	Near, Far float32
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Lights:     make([]*Light, 0),
		Background: core.ColorWhite,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// AddNode inserts node under the root.
func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

func (s *Scene) RemoveLight(light *Light) {
	for i, l := range s.Lights {
		if l == light {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			return
		}
	}
}

// Light returns the first light of the given type, or nil.
func (s *Scene) Light(t LightType) *Light {
	for _, l := range s.Lights {
		if l.Type == t {
			return l
		}
	}
	return nil
}

func (s *Scene) Update(deltaTime float32) {
	if s.Root != nil {
		s.Root.Update(deltaTime)
	}
}

// GetVisibleNodes returns all nodes with meshes that are visible. A hidden
// node hides its whole subtree.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if !node.Visible {
			return
		}
		if node.Mesh != nil {
			visible = append(visible, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(s.Root)
	return visible
}

// NewHemisphereLight returns a sky/ground ambient light.
func NewHemisphereLight(sky, ground core.Color, intensity float32) *Light {
	return &Light{Type: LightHemisphere, Color: sky, GroundColor: ground, Intensity: intensity}
}

// NewDirectionalLight returns a light placed at position shining toward the
// origin.
func NewDirectionalLight(position math.Vec3, color core.Color, intensity float32) *Light {
	return &Light{
		Type:      LightDirectional,
		Direction: position.Negate().Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// AddParticles inserts a static point cloud and returns its node.
func (s *Scene) AddParticles(points []math.Vec3, color core.Color, size float32) *Node {
	mesh := CreatePoints(points, color)
	mesh.Material = NewPointsMaterial("Particles", color, size)
	node := NewNode("Particles")
	node.Mesh = mesh
	s.AddNode(node)
	return node
}

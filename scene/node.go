package scene

import (
	"cube-field/core"
	"cube-field/math"
)

// Node represents an object in the scene graph
type Node struct {
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Visible   bool

	// Spin is an Euler XYZ angular velocity in radians per second applied by
	// Update on top of the node's current rotation.
	Spin math.Vec3

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      math.Mat4
}

func NewNode(name string) *Node {
	return &Node{
		Name:             name,
		Transform:        core.NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		worldMatrixDirty: true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

func (n *Node) GetWorldMatrix() math.Mat4 {
	if n.worldMatrixDirty {
		local := n.Transform.GetMatrix()
		if n.Parent != nil {
			// Row vectors: the local transform applies before the parent's.
			n.worldMatrix = local.Mul(n.Parent.GetWorldMatrix())
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

// WorldPosition is the node origin in world space.
func (n *Node) WorldPosition() math.Vec3 {
	m := n.GetWorldMatrix()
	return math.Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}
}

func (n *Node) MarkWorldMatrixDirty() {
	if n.worldMatrixDirty {
		return
	}
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot math.Quaternion) {
	n.Transform.Rotation = rot
	n.MarkWorldMatrixDirty()
}

// SetEuler sets the rotation from Euler XYZ angles in radians.
func (n *Node) SetEuler(euler math.Vec3) {
	n.SetRotation(math.QuaternionFromEuler(euler))
}

func (n *Node) SetScale(scale math.Vec3) {
	n.Transform.Scale = scale
	n.MarkWorldMatrixDirty()
}

func (n *Node) Translate(delta math.Vec3) {
	n.Transform.Position = n.Transform.Position.Add(delta)
	n.MarkWorldMatrixDirty()
}

func (n *Node) Rotate(axis math.Vec3, angle float32) {
	rotation := math.QuaternionFromAxisAngle(axis, angle)
	n.Transform.Rotation = n.Transform.Rotation.Mul(rotation).Normalize()
	n.MarkWorldMatrixDirty()
}

// Update advances spinning nodes by deltaTime seconds, depth first.
func (n *Node) Update(deltaTime float32) {
	if n.Spin != math.Vec3Zero {
		step := math.QuaternionFromEuler(n.Spin.Mul(deltaTime))
		n.Transform.Rotation = n.Transform.Rotation.Mul(step).Normalize()
		n.MarkWorldMatrixDirty()
	}
	for _, child := range n.Children {
		child.Update(deltaTime)
	}
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Traverse(func(*Node) { count++ })
	return count
}

package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cube-field/core"
	"cube-field/field"
	"cube-field/math"
)

func assertVec3(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-4, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-4, msgAndArgs...)
}

func TestCreateBox(t *testing.T) {
	m := CreateBox(2, 4, 6)
	require.Len(t, m.Vertices, 24)
	require.Len(t, m.Indices, 36)
	assert.Equal(t, uint32(36), m.IndexCount)
	assert.Equal(t, DrawTriangles, m.DrawMode)

	require.True(t, m.HasLocalAABB)
	assert.Equal(t, math.Vec3{X: -1, Y: -2, Z: -3}, m.LocalAABB.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, m.LocalAABB.Max)

	for i, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Length(), 1e-6)
		assert.Greater(t, v.Normal.Dot(v.Position), float32(0), "vertex %d normal points inward", i)
	}

	// Triangles wind counter-clockwise seen from outside.
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, n.Dot(a.Normal), float32(0), "triangle %d", i/3)
	}
}

func TestCreatePoints(t *testing.T) {
	points := []math.Vec3{{X: 1}, {Y: -2}, {Z: 3}}
	m := CreatePoints(points, core.ColorBlack)
	assert.Equal(t, DrawPoints, m.DrawMode)
	assert.Len(t, m.Vertices, 3)
	assert.Empty(t, m.Indices)
	assert.Equal(t, math.Vec3{X: 0, Y: -2, Z: 0}, m.LocalAABB.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 3}, m.LocalAABB.Max)
}

func TestNewFieldNodeSharesTemplateMesh(t *testing.T) {
	tpl := field.MakeTemplates()[field.TemplateRedSmall]
	f, err := field.GenerateGrid(3, 2, tpl)
	require.NoError(t, err)

	group, err := NewFieldNode(f)
	require.NoError(t, err)
	assert.Equal(t, FieldNodeName, group.Name)
	assert.Nil(t, group.Mesh)
	require.Len(t, group.Children, 27)
	assert.Equal(t, 28, group.Count())

	shared := group.Children[0].Mesh
	require.NotNil(t, shared)
	assert.Equal(t, tpl.Name, shared.Name)
	assert.True(t, shared.Translucent())
	assert.InDelta(t, 0.6, shared.Material.Opacity, 1e-6)
	assert.Equal(t, math.Vec3{X: -0.4, Y: -0.4, Z: -0.4}, shared.LocalAABB.Min)

	for i, child := range group.Children {
		assert.Same(t, shared, child.Mesh)
		assert.Same(t, group, child.Parent)
		assert.Equal(t, f.Instances[i].Position, child.Transform.Position)
		assert.Equal(t, math.QuaternionFromEuler(field.GridTilt), child.Transform.Rotation)
	}
}

func TestNewFieldNodeRejectsBrokenField(t *testing.T) {
	_, err := NewFieldNode(nil)
	assert.ErrorIs(t, err, field.ErrInvalidParameter)

	f, err := field.GenerateGrid(2, 1, field.MakeTemplates()[0])
	require.NoError(t, err)
	f.Instances[0].Template = 5
	_, err = NewFieldNode(f)
	assert.ErrorIs(t, err, field.ErrInvalidParameter)
}

func TestSceneAddField(t *testing.T) {
	s := NewScene()
	f, err := field.GenerateRandomCloud(4, field.MakeTemplates()[field.TemplateBlueLarge], field.NewSeededSource(3))
	require.NoError(t, err)

	group, err := s.AddField(f)
	require.NoError(t, err)
	assert.Same(t, group, s.Root.Find(FieldNodeName))
	assert.Len(t, s.GetVisibleNodes(), 64)

	group.Visible = false
	assert.Empty(t, s.GetVisibleNodes())
}

func TestWorldMatrixFollowsParent(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.SetPosition(math.Vec3{X: 1})
	child.SetPosition(math.Vec3{Y: 2})
	assertVec3(t, math.Vec3{X: 1, Y: 2}, child.WorldPosition())

	rot := math.QuaternionFromAxisAngle(math.Vec3{Z: 1}, math32.Pi/2)
	parent.SetRotation(rot)
	want := rot.RotateVector(math.Vec3{Y: 2}).Add(math.Vec3{X: 1})
	assertVec3(t, want, child.WorldPosition())

	parent.RemoveChild(child)
	assert.Nil(t, child.Parent)
	assertVec3(t, math.Vec3{Y: 2}, child.WorldPosition())
}

func TestNodeSpin(t *testing.T) {
	n := NewNode("spinner")
	n.Update(1)
	assert.Equal(t, math.QuaternionIdentity(), n.Transform.Rotation)

	n.Spin = math.Vec3{Z: math32.Pi / 2}
	n.Update(0.5)
	n.Update(0.5)
	assertVec3(t, math.Vec3{Y: 1}, n.Transform.Rotation.RotateVector(math.Vec3{X: 1}))
}

func TestNewDirectionalLight(t *testing.T) {
	l := NewDirectionalLight(math.Vec3{X: 10, Y: 10, Z: 10}, core.ColorWhite, 1)
	assert.Equal(t, LightDirectional, l.Type)
	assert.InDelta(t, 1, l.Direction.Length(), 1e-6)
	assert.Less(t, l.Direction.Y, float32(0))

	s := NewScene()
	s.AddLight(l)
	s.AddLight(NewHemisphereLight(core.ColorWhite, core.ColorBlack, 1))
	assert.Same(t, l, s.Light(LightDirectional))
	assert.Equal(t, LightHemisphere, s.Light(LightHemisphere).Type)
	s.RemoveLight(l)
	assert.Nil(t, s.Light(LightDirectional))
}

func TestFrustumCulling(t *testing.T) {
	cam := NewCamera(math32.Pi/3, 1, 0.1, 100)
	cam.SetPosition(math.Vec3{Z: 5})
	cam.LookAt(math.Vec3Zero, math.Vec3Up)

	f := FrustumFromVP(cam.GetViewProjectionMatrix())
	cases := []struct {
		name string
		box  AABB
		want bool
	}{
		{"origin", AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3One}, true},
		{"behind camera", AABB{Min: math.Vec3{Z: 10}, Max: math.Vec3{X: 1, Y: 1, Z: 12}}, false},
		{"far right", AABB{Min: math.Vec3{X: 100}, Max: math.Vec3{X: 102, Y: 1, Z: 1}}, false},
		{"beyond far plane", AABB{Min: math.Vec3{Z: -200}, Max: math.Vec3{X: 1, Y: 1, Z: -199}}, false},
		{"straddling left edge", AABB{Min: math.Vec3{X: -10}, Max: math.Vec3{X: 0, Y: 1, Z: 1}}, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.box.IntersectsFrustum(&f), tc.name)
	}

	box := CreateCube(2)
	world := ComputeAABB(box, math.Mat4Translation(math.Vec3{X: 3, Y: 0, Z: -4}))
	assertVec3(t, math.Vec3{X: 2, Y: -1, Z: -5}, world.Min)
	assertVec3(t, math.Vec3{X: 4, Y: 1, Z: -3}, world.Max)
}

func TestCameraView(t *testing.T) {
	cam := NewCamera(math32.Pi/4, 16.0/9.0, 0.1, 1000)
	cam.SetPosition(math.Vec3{Z: 5})
	cam.LookAt(math.Vec3Zero, math.Vec3Up)
	assertVec3(t, math.Vec3{Z: -5}, cam.GetViewMatrix().MulVec3(math.Vec3Zero))
	assertVec3(t, math.Vec3{Z: -1}, cam.GetForward())

	cam.UpdateAspectRatio(800, 800)
	assert.Equal(t, float32(1), cam.AspectRatio)
	cam.UpdateAspectRatio(800, 0)
	assert.Equal(t, float32(1), cam.AspectRatio)
}

func newOrbitFixture() (*Camera, *OrbitControls) {
	cam := NewCamera(35*math32.Pi/180, 1, 0.1, 1000)
	cam.SetPosition(math.Vec3{Y: 10, Z: 20})
	cam.LookAt(math.Vec3Zero, math.Vec3Up)
	return cam, NewOrbitControls(cam)
}

func TestOrbitControlsSync(t *testing.T) {
	cam, o := newOrbitFixture()
	assert.InDelta(t, math32.Sqrt(500), o.Distance(), 1e-4)
	az, polar := o.Angles()
	assert.InDelta(t, 0, az, 1e-6)
	assert.InDelta(t, math32.Acos(10/math32.Sqrt(500)), polar, 1e-5)

	assert.False(t, o.Update(cam))
	assertVec3(t, math.Vec3{Y: 10, Z: 20}, cam.Position)
}

func TestOrbitControlsLimits(t *testing.T) {
	cam, o := newOrbitFixture()
	o.MinDistance, o.MaxDistance = 10, 30
	o.MinPolarAngle, o.MaxPolarAngle = 0.5, 1.2

	o.Zoom(-100)
	assert.True(t, o.Update(cam))
	assert.InDelta(t, 30, o.Distance(), 1e-4)
	assert.InDelta(t, 30, cam.Position.Length(), 1e-3)

	o.Zoom(1000)
	o.Update(cam)
	assert.InDelta(t, 10, o.Distance(), 1e-4)

	o.Rotate(0, 10)
	o.Update(cam)
	_, polar := o.Angles()
	assert.InDelta(t, 0.5, polar, 1e-6)
	assert.InDelta(t, 10*math32.Cos(0.5), cam.Position.Y, 1e-3)

	o.Rotate(0, -10)
	o.Update(cam)
	_, polar = o.Angles()
	assert.InDelta(t, 1.2, polar, 1e-6)

	o.Rotate(math32.Pi/2, 0)
	o.Update(cam)
	az, _ := o.Angles()
	assert.InDelta(t, -math32.Pi/2, az, 1e-5)
	assert.Less(t, cam.Position.X, float32(0))
	assertVec3(t, math.Vec3Zero, cam.Target)
}

func TestOrbitControlsDamping(t *testing.T) {
	cam, o := newOrbitFixture()
	o.EnableDamping = true
	o.DampingFactor = 0.1

	o.Rotate(1, 0)
	o.Update(cam)
	az, _ := o.Angles()
	assert.InDelta(t, -0.1, az, 1e-5)

	o.Update(cam)
	az, _ = o.Angles()
	assert.InDelta(t, -0.19, az, 1e-5)

	for i := 0; i < 500; i++ {
		o.Update(cam)
	}
	az, _ = o.Angles()
	assert.InDelta(t, -1, az, 1e-3)
	assert.False(t, o.Update(cam))
}

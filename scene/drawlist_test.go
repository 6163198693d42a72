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

func TestBuildDrawListBatchesByMesh(t *testing.T) {
	s := NewScene()
	templates := field.MakeTemplates()

	red, err := field.GenerateGrid(2, 2, templates[field.TemplateRedSmall])
	require.NoError(t, err)
	blue, err := field.GenerateGrid(3, 4, templates[field.TemplateBlueLarge])
	require.NoError(t, err)

	_, err = s.AddField(red)
	require.NoError(t, err)
	_, err = s.AddField(blue)
	require.NoError(t, err)
	s.AddParticles([]math.Vec3{{X: 1}, {X: 2}}, core.ColorBlack, 2)

	list := BuildDrawList(s, nil, math.Vec3{Z: 30})
	assert.Equal(t, 8+27+1, list.Instances)
	assert.Zero(t, list.Culled)
	require.Len(t, list.Batches, 3)

	// Opaque first, in scene order; the translucent red field last.
	assert.Equal(t, templates[field.TemplateBlueLarge].Name, list.Batches[0].Mesh.Name)
	assert.Len(t, list.Batches[0].Models, 27)
	assert.Equal(t, DrawPoints, list.Batches[1].Mesh.DrawMode)
	assert.Equal(t, templates[field.TemplateRedSmall].Name, list.Batches[2].Mesh.Name)
	assert.Len(t, list.Batches[2].Models, 8)
}

func TestBuildDrawListSortsTranslucentFarToNear(t *testing.T) {
	s := NewScene()
	f, err := field.GenerateGrid(3, 2, field.MakeTemplates()[field.TemplateRedSmall])
	require.NoError(t, err)
	_, err = s.AddField(f)
	require.NoError(t, err)

	eye := math.Vec3{Z: 10}
	list := BuildDrawList(s, nil, eye)
	require.Len(t, list.Batches, 1)

	models := list.Batches[0].Models
	require.Len(t, models, 27)
	prev := math32.Inf(1)
	for _, m := range models {
		d := math.Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}.Distance(eye)
		assert.LessOrEqual(t, d, prev)
		prev = d
	}
}

func TestBuildDrawListCulls(t *testing.T) {
	s := NewScene()
	near := NewNode("near")
	near.Mesh = CreateCube(1)
	far := NewNode("far")
	far.Mesh = near.Mesh
	far.SetPosition(math.Vec3{X: 500})
	s.AddNode(near)
	s.AddNode(far)

	cam := NewCamera(math32.Pi/3, 1, 0.1, 100)
	cam.SetPosition(math.Vec3{Z: 5})
	s.SetCamera(cam)
	frustum := FrustumFromVP(cam.GetViewProjectionMatrix())

	list := BuildDrawList(s, &frustum, cam.Position)
	assert.Equal(t, 1, list.Instances)
	assert.Equal(t, 1, list.Culled)
	require.Len(t, list.Batches, 1)
	assert.Len(t, list.Batches[0].Models, 1)
}

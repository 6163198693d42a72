package scene

import (
	"sort"

	"cube-field/math"
)

// Batch is every visible placement of one mesh, drawn in a single
// instanced call.
type Batch struct {
	Mesh   *Mesh
	Models []math.Mat4
}

// DrawList is a frame's worth of batches in submission order: opaque
// meshes first, then translucent meshes with instances sorted far to near.
type DrawList struct {
	Batches   []Batch
	Instances int
	Culled    int
}

// BuildDrawList collects the visible nodes of s, drops those whose world
// bounds miss frustum (nil disables culling), and groups the rest by mesh.
func BuildDrawList(s *Scene, frustum *Frustum, eye math.Vec3) DrawList {
	var list DrawList
	index := make(map[*Mesh]int)
	var opaque, translucent []Batch

	for _, node := range s.GetVisibleNodes() {
		world := node.GetWorldMatrix()
		if frustum != nil && node.Mesh.HasLocalAABB {
			if !ComputeAABB(node.Mesh, world).IntersectsFrustum(frustum) {
				list.Culled++
				continue
			}
		}
		list.Instances++

		key := node.Mesh
		i, ok := index[key]
		if !ok {
			if key.Translucent() {
				i = -1 - len(translucent)
				translucent = append(translucent, Batch{Mesh: key})
			} else {
				i = len(opaque)
				opaque = append(opaque, Batch{Mesh: key})
			}
			index[key] = i
		}
		if i >= 0 {
			opaque[i].Models = append(opaque[i].Models, world)
		} else {
			translucent[-1-i].Models = append(translucent[-1-i].Models, world)
		}
	}

	for _, b := range translucent {
		sortFarToNear(b.Models, eye)
	}
	list.Batches = append(opaque, translucent...)
	return list
}

func sortFarToNear(models []math.Mat4, eye math.Vec3) {
	dist := func(m math.Mat4) float32 {
		return math.Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}.Sub(eye).LengthSqr()
	}
	sort.SliceStable(models, func(a, b int) bool {
		return dist(models[a]) > dist(models[b])
	})
}

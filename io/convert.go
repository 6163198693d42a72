package io

import (
	"github.com/chewxy/math32"

	"cube-field/math"
)

// Vec3ToArray converts a Vec3 to a [3]float32
func Vec3ToArray(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// ArrayToVec3 converts a [3]float32 to Vec3
func ArrayToVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Radians converts an angle in degrees, as config files store them.
func Radians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}

package scene

import (
	"github.com/chewxy/math32"

	"cube-field/math"
)

// Camera is a perspective camera aimed at a target point.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	viewProjMatrix   math.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    math.Vec3{X: 0, Y: 0, Z: 1},
		Target:      math.Vec3Zero,
		Up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) LookAt(target, up math.Vec3) {
	c.Target = target
	c.Up = up
	c.dirty = true
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) GetForward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) updateMatrices() {
	c.viewMatrix = math.Mat4LookAt(c.Position, c.Target, c.Up)
	c.projectionMatrix = math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.viewMatrix.Mul(c.projectionMatrix)
	c.dirty = false
}

// polarEpsilon keeps the polar angle off the poles where the look-at basis
// degenerates.
const polarEpsilon = 1e-4

// OrbitControls moves a camera on a sphere around Target. Input is
// accumulated through Rotate and Zoom and applied, within the configured
// limits, by Update.
type OrbitControls struct {
	Target math.Vec3

	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32 // radians from +Y
	MaxPolarAngle float32

	EnableDamping bool
	DampingFactor float32 // fraction of pending motion applied per update
	RotateSpeed   float32
	ZoomSpeed     float32

	azimuth  float32
	polar    float32
	distance float32

	deltaAzimuth float32
	deltaPolar   float32
	scale        float32
}

// NewOrbitControls derives the orbit from the camera's current position
// and target. Limits start wide open.
func NewOrbitControls(camera *Camera) *OrbitControls {
	o := &OrbitControls{
		Target:        camera.Target,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math32.Pi,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		scale:         1,
	}
	o.Sync(camera)
	return o
}

// Sync re-reads the spherical state from the camera, discarding pending input.
func (o *OrbitControls) Sync(camera *Camera) {
	offset := camera.Position.Sub(o.Target)
	o.distance = offset.Length()
	if o.distance > 0 {
		o.polar = math32.Acos(clamp(offset.Y/o.distance, -1, 1))
	}
	o.azimuth = math32.Atan2(offset.X, offset.Z)
	o.deltaAzimuth, o.deltaPolar, o.scale = 0, 0, 1
}

// Rotate queues an orbit step in radians.
func (o *OrbitControls) Rotate(deltaAzimuth, deltaPolar float32) {
	o.deltaAzimuth -= deltaAzimuth * o.RotateSpeed
	o.deltaPolar -= deltaPolar * o.RotateSpeed
}

// Zoom queues a dolly step; positive steps move toward the target.
func (o *OrbitControls) Zoom(steps float32) {
	o.scale *= math32.Pow(0.95, steps*o.ZoomSpeed)
}

// Distance is the current camera distance from the target.
func (o *OrbitControls) Distance() float32 { return o.distance }

// Angles returns the current azimuth and polar angle in radians.
func (o *OrbitControls) Angles() (azimuth, polar float32) { return o.azimuth, o.polar }

// Update applies queued input within the limits, moves the camera, and
// reports whether the camera moved.
func (o *OrbitControls) Update(camera *Camera) bool {
	factor := float32(1)
	if o.EnableDamping {
		factor = o.DampingFactor
	}

	prevAzimuth, prevPolar, prevDistance := o.azimuth, o.polar, o.distance

	o.azimuth += o.deltaAzimuth * factor
	o.polar += o.deltaPolar * factor
	o.polar = clamp(o.polar, o.MinPolarAngle, o.MaxPolarAngle)
	o.polar = clamp(o.polar, polarEpsilon, math32.Pi-polarEpsilon)

	o.distance *= o.scale
	o.distance = clamp(o.distance, o.MinDistance, o.MaxDistance)

	if o.EnableDamping {
		o.deltaAzimuth *= 1 - o.DampingFactor
		o.deltaPolar *= 1 - o.DampingFactor
	} else {
		o.deltaAzimuth, o.deltaPolar = 0, 0
	}
	o.scale = 1

	sinPolar, cosPolar := math32.Sincos(o.polar)
	sinAz, cosAz := math32.Sincos(o.azimuth)
	offset := math.Vec3{
		X: o.distance * sinPolar * sinAz,
		Y: o.distance * cosPolar,
		Z: o.distance * sinPolar * cosAz,
	}
	camera.SetPosition(o.Target.Add(offset))
	camera.LookAt(o.Target, math.Vec3Up)

	return o.azimuth != prevAzimuth || o.polar != prevPolar || o.distance != prevDistance
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

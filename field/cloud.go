package field

import (
	"fmt"

	"github.com/chewxy/math32"

	"cube-field/math"
)

const (
	// CloudSpread ties the cloud's edge length to its density: the
	// placement cube is objectsPerAxis*CloudSpread units wide.
	CloudSpread = 5
	// MaxCloudTilt bounds the per-instance rotation magnitude, exclusive.
	MaxCloudTilt float32 = 0.2
)

// GenerateRandomCloud scatters objectsPerAxis^3 instances of t uniformly in
// a cube of edge objectsPerAxis*CloudSpread centred on the origin.
//
// Each instance consumes four draws from rng, in order x, y, z and tilt.
// The tilt r lands in [0, MaxCloudTilt) and is applied as (r, -r, r).
// Instances may overlap.
func GenerateRandomCloud(objectsPerAxis int, t Template, rng Source) (*Field, error) {
	if err := checkAxis(objectsPerAxis); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil source", ErrRandomSourceUnavailable)
	}

	n := objectsPerAxis
	interval := float64(n * CloudSpread)
	instances := make([]Instance, cube(n))
	for i := range instances {
		var u [4]float64
		for k := range u {
			v, err := draw(rng)
			if err != nil {
				return nil, fmt.Errorf("instance %d: %w", i, err)
			}
			u[k] = v
		}

		r := float32(u[3] * float64(MaxCloudTilt))
		if r >= MaxCloudTilt {
			r = math32.Nextafter(MaxCloudTilt, 0)
		}
		instances[i] = Instance{
			Template: 0,
			Position: math.Vec3{
				X: float32((u[0] - 0.5) * interval),
				Y: float32((u[1] - 0.5) * interval),
				Z: float32((u[2] - 0.5) * interval),
			},
			Rotation: math.Vec3{X: r, Y: -r, Z: r},
		}
	}

	return &Field{
		Mode:           ModeCloud,
		ObjectsPerAxis: n,
		Interval:       float32(interval),
		Templates:      []Template{t},
		Instances:      instances,
	}, nil
}

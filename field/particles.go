package field

import (
	"fmt"

	"cube-field/math"
)

// GenerateParticles scatters count static points uniformly in a cube of
// edge extent centred on the origin, drawing x, y and z per point.
func GenerateParticles(count int, extent float32, rng Source) ([]math.Vec3, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: particle count %d must be positive", ErrInvalidParameter, count)
	}
	if !(extent > 0) {
		return nil, fmt.Errorf("%w: particle extent %g must be positive", ErrInvalidParameter, extent)
	}

	e := float64(extent)
	points := make([]math.Vec3, count)
	for i := range points {
		var u [3]float64
		for k := range u {
			v, err := draw(rng)
			if err != nil {
				return nil, fmt.Errorf("particle %d: %w", i, err)
			}
			u[k] = v
		}
		points[i] = math.Vec3{
			X: float32((u[0] - 0.5) * e),
			Y: float32((u[1] - 0.5) * e),
			Z: float32((u[2] - 0.5) * e),
		}
	}
	return points, nil
}

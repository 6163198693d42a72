package field

import (
	"fmt"
	"math/rand"
)

// Source produces uniform reals in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSeededSource returns a deterministic Source; equal seeds replay equal
// fields.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func draw(rng Source) (float64, error) {
	if rng == nil {
		return 0, fmt.Errorf("%w: nil source", ErrRandomSourceUnavailable)
	}
	u := rng.Float64()
	if !(u >= 0 && u < 1) {
		return 0, fmt.Errorf("%w: draw %v outside [0,1)", ErrRandomSourceUnavailable, u)
	}
	return u, nil
}

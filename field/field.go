// Package field generates object fields: many box instances sharing a small
// set of templates, laid out either on a regular grid or as a random cloud.
//
// Generation is synchronous and all-or-nothing. A generator either returns
// a complete Field or an error and no Field.
package field

import (
	"errors"
	"fmt"

	"cube-field/math"
)

var (
	// ErrInvalidParameter reports a non-positive count, spacing or extent,
	// or a degenerate template.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrRandomSourceUnavailable reports a missing source or one that
	// produced a value outside [0, 1).
	ErrRandomSourceUnavailable = errors.New("random source unavailable")
)

// MaxObjectsPerAxis bounds the axis count so the cubed instance count stays
// addressable.
const MaxObjectsPerAxis = 256

// Mode selects the layout policy of a Field.
type Mode int

const (
	ModeGrid Mode = iota
	ModeCloud
)

func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	case ModeCloud:
		return "cloud"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "grid":
		return ModeGrid, nil
	case "cloud":
		return ModeCloud, nil
	}
	return 0, fmt.Errorf("%w: unknown field mode %q", ErrInvalidParameter, s)
}

// Instance places one copy of a template. It carries no geometry of its
// own, only the index of its template within the owning Field.
type Instance struct {
	Template int       // index into Field.Templates
	Position math.Vec3 // world units
	Rotation math.Vec3 // Euler XYZ, radians
}

// Field is a generated set of instances plus the parameters that produced
// it. A Field exclusively owns its Instances.
type Field struct {
	Mode           Mode
	ObjectsPerAxis int
	Spacing        float32 // grid only
	Interval       float32 // cloud only: edge length of the placement cube

	Templates []Template
	Instances []Instance
}

// Len returns the number of instances.
func (f *Field) Len() int {
	return len(f.Instances)
}

// TemplateOf resolves the template an instance refers to.
func (f *Field) TemplateOf(inst Instance) Template {
	return f.Templates[inst.Template]
}

// Bounds returns the box enclosing every instance position. An empty field
// returns zero vectors.
func (f *Field) Bounds() (min, max math.Vec3) {
	if len(f.Instances) == 0 {
		return math.Vec3Zero, math.Vec3Zero
	}
	min = f.Instances[0].Position
	max = min
	for _, inst := range f.Instances[1:] {
		min = min.Min(inst.Position)
		max = max.Max(inst.Position)
	}
	return min, max
}

// Center returns the midpoint of Bounds.
func (f *Field) Center() math.Vec3 {
	min, max := f.Bounds()
	return min.Add(max).Mul(0.5)
}

// Validate checks the Field invariants: every instance refers to one of the
// Field's templates and the instance count is ObjectsPerAxis cubed.
func (f *Field) Validate() error {
	if len(f.Templates) == 0 {
		return fmt.Errorf("%w: field has no templates", ErrInvalidParameter)
	}
	if want := cube(f.ObjectsPerAxis); len(f.Instances) != want {
		return fmt.Errorf("%w: field has %d instances, want %d", ErrInvalidParameter, len(f.Instances), want)
	}
	for i, inst := range f.Instances {
		if inst.Template < 0 || inst.Template >= len(f.Templates) {
			return fmt.Errorf("%w: instance %d refers to template %d of %d",
				ErrInvalidParameter, i, inst.Template, len(f.Templates))
		}
	}
	return nil
}

func cube(n int) int {
	return n * n * n
}

func checkAxis(objectsPerAxis int) error {
	if objectsPerAxis <= 0 || objectsPerAxis > MaxObjectsPerAxis {
		return fmt.Errorf("%w: objects per axis %d outside [1,%d]",
			ErrInvalidParameter, objectsPerAxis, MaxObjectsPerAxis)
	}
	return nil
}

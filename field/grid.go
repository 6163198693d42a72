package field

import (
	"fmt"

	"cube-field/math"
)

// GridStartZ is the depth of the first grid layer. Layers recede from the
// viewer by one spacing each.
const GridStartZ float32 = -10

// GridTilt is the rotation shared by every grid instance.
var GridTilt = math.Vec3{X: 0.2, Y: 0.2, Z: 0}

// GenerateGrid lays objectsPerAxis^3 instances of t on a regular lattice.
// X and Y start at -objectsPerAxis*spacing/2 and grow by spacing; Z starts
// at GridStartZ and shrinks by spacing. Instances are emitted layer by
// layer, row by row, column by column.
func GenerateGrid(objectsPerAxis int, spacing float32, t Template) (*Field, error) {
	if err := checkAxis(objectsPerAxis); err != nil {
		return nil, err
	}
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: spacing %g must be positive", ErrInvalidParameter, spacing)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	n := objectsPerAxis
	start := -float32(n) * spacing / 2
	instances := make([]Instance, 0, cube(n))
	for layer := 0; layer < n; layer++ {
		z := GridStartZ - float32(layer)*spacing
		for row := 0; row < n; row++ {
			y := start + float32(row)*spacing
			for col := 0; col < n; col++ {
				x := start + float32(col)*spacing
				instances = append(instances, Instance{
					Template: 0,
					Position: math.Vec3{X: x, Y: y, Z: z},
					Rotation: GridTilt,
				})
			}
		}
	}

	return &Field{
		Mode:           ModeGrid,
		ObjectsPerAxis: n,
		Spacing:        spacing,
		Templates:      []Template{t},
		Instances:      instances,
	}, nil
}

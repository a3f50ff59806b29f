package stroke

import (
	"fmt"

	"github.com/Faultbox/strokemesh/pkg/math"
)

// Sample is one observed point of a stroke. Right is the unit lateral
// direction, Forward the unit travel or view direction; they need not be
// orthogonal. Width is the half-width of a ribbon or the radius of a tube.
type Sample struct {
	Position math.Vec3
	Right    math.Vec3
	Forward  math.Vec3
	Width    float32
}

// Validate rejects non-finite components and non-positive widths.
func (s Sample) Validate() error {
	switch {
	case !s.Position.IsFinite():
		return fmt.Errorf("%w: position %v", ErrInvalidSample, s.Position)
	case !s.Right.IsFinite():
		return fmt.Errorf("%w: right %v", ErrInvalidSample, s.Right)
	case !s.Forward.IsFinite():
		return fmt.Errorf("%w: forward %v", ErrInvalidSample, s.Forward)
	case !(s.Width > 0) || !finite(s.Width):
		return fmt.Errorf("%w: width %v", ErrInvalidSample, s.Width)
	}
	return nil
}

func finite(f float32) bool {
	return math.Vec3{X: f}.IsFinite()
}

func samplePosition(s Sample) math.Vec3 {
	return s.Position
}

package simplify

import "github.com/Faultbox/strokemesh/pkg/math"

// Admit reports whether candidate is far enough from last to be appended.
// thresholdSq is already squared; a candidate exactly at the threshold is admitted.
func Admit(last, candidate math.Vec3, thresholdSq float32) bool {
	return last.DistanceSq(candidate) >= thresholdSq
}

// Radial keeps the first item, every item farther than tolerance from the
// previously kept one, and the final item.
func Radial[T any](items []T, pos func(T) math.Vec3, tolerance float32) ([]T, bool) {
	if len(items) < 3 {
		return items, false
	}

	sq := tolerance * tolerance
	out := make([]T, 0, len(items))
	out = append(out, items[0])
	prev := pos(items[0])

	for i := 1; i < len(items)-1; i++ {
		p := pos(items[i])
		if p.DistanceSq(prev) > sq {
			out = append(out, items[i])
			prev = p
		}
	}
	out = append(out, items[len(items)-1])

	if len(out) == len(items) {
		return items, false
	}
	return out, true
}

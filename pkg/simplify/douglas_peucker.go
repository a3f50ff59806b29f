// Package simplify reduces stroke polylines: a global Douglas-Peucker pass,
// a minimum-distance admission filter for live input, and a radial filter.
package simplify

import "github.com/Faultbox/strokemesh/pkg/math"

// DouglasPeucker simplifies items so that every dropped item lies within
// tolerance (a linear distance) of the kept polyline. The first and last items
// are always kept and the survivors keep their original order. changed reports
// whether anything was dropped. Inputs with fewer than 4 items are returned as is.
func DouglasPeucker[T any](items []T, pos func(T) math.Vec3, tolerance float32) ([]T, bool) {
	if len(items) < 4 {
		return items, false
	}

	first, last := 0, len(items)-1
	keep := make([]bool, len(items))
	keep[first] = true
	keep[last] = true

	// Closed loops measure against the last distinct point instead of the start.
	for last > first && pos(items[first]) == pos(items[last]) {
		last--
	}
	keep[last] = true

	dpWorker(items, pos, tolerance*tolerance, first, last, keep)

	out := make([]T, 0, len(items))
	for i, k := range keep {
		if k {
			out = append(out, items[i])
		}
	}
	if len(out) == len(items) {
		return items, false
	}
	return out, true
}

// dpWorker marks the farthest interior item of each range while it exceeds
// thresholdSq. An explicit stack replaces recursion; the order ranges are
// visited in does not affect the result.
func dpWorker[T any](items []T, pos func(T) math.Vec3, thresholdSq float32, first, last int, keep []bool) {
	stack := []int{first, last}

	for len(stack) > 0 {
		start := stack[len(stack)-2]
		end := stack[len(stack)-1]
		stack = stack[:len(stack)-2]

		a, b := pos(items[start]), pos(items[end])
		var maxSq float32
		maxIndex := start
		for i := start + 1; i < end; i++ {
			if d := math.SegmentDistanceSq(pos(items[i]), a, b); d > maxSq {
				maxSq = d
				maxIndex = i
			}
		}

		if maxSq > thresholdSq && maxIndex != start {
			keep[maxIndex] = true
			stack = append(stack, start, maxIndex, maxIndex, end)
		}
	}
}

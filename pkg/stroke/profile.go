package stroke

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Faultbox/strokemesh/pkg/math"
)

// Profile returns n unit vectors evenly spaced around the Z axis, starting at +X.
func Profile(n int) []math.Vec3 {
	if n <= 0 {
		return nil
	}
	theta := 2 * math32.Pi / float32(n)
	out := make([]math.Vec3, n)
	for k := range out {
		a := theta * float32(k)
		out[k] = math.Vec3{X: math32.Cos(a), Y: math32.Sin(a)}
	}
	return out
}

// ProfileTable memoises profiles by segment count. It is safe for concurrent use.
// Returned slices are shared and must not be modified.
type ProfileTable struct {
	mu       sync.Mutex
	profiles map[int][]math.Vec3
}

// NewProfileTable returns an empty table.
func NewProfileTable() *ProfileTable {
	return &ProfileTable{profiles: make(map[int][]math.Vec3)}
}

// Get returns the profile with n segments, computing it on first use.
func (t *ProfileTable) Get(n int) []math.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.profiles[n]; ok {
		return p
	}
	p := Profile(n)
	if t.profiles == nil {
		t.profiles = make(map[int][]math.Vec3)
	}
	t.profiles[n] = p
	return p
}

// Len returns the number of cached profiles.
func (t *ProfileTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.profiles)
}

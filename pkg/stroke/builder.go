package stroke

import (
	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
)

// Sink receives each layer after a rebuild. The buffer stays owned by the
// stroke and is reused by later rebuilds, so a Sink that keeps the data past
// the call must copy it. optimize is true only for the final build.
type Sink interface {
	Commit(layer Layer, buf *mesh.Buffer, optimize bool)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(layer Layer, buf *mesh.Buffer, optimize bool)

// Commit calls f.
func (f SinkFunc) Commit(layer Layer, buf *mesh.Buffer, optimize bool) {
	f(layer, buf, optimize)
}

// builder turns samples into the main layer. Strategies are picked once per stroke.
type builder interface {
	// reset drops all geometry.
	reset()
	// extend emits geometry for samples[from:] on top of what is already built.
	// Strategies with a terminal region may regenerate from an earlier point.
	extend(samples []Sample, from int)
	// finalize runs passes that depend on the whole sample list.
	finalize(samples []Sample)
	buffer() *mesh.Buffer
}

func newBuilder(cfg Config) builder {
	if cfg.Style == Tube {
		var profile []math.Vec3
		if cfg.Profiles != nil {
			profile = cfg.Profiles.Get(cfg.CrossSegments)
		} else {
			profile = Profile(cfg.CrossSegments)
		}
		capRings := 0
		if cfg.EndCaps {
			capRings = cfg.CapRings
		}
		return newTubeBuilder(profile, capRings)
	}
	return &ribbonBuilder{}
}

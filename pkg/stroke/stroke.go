// Package stroke turns a live stream of 3D samples into ribbon, swatch and
// tube meshes, simplifying the polyline as it grows.
//
// A Stroke is created with New, fed with Consider and sealed with exactly one
// Finish. It is not safe for concurrent use.
package stroke

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
	"github.com/Faultbox/strokemesh/pkg/simplify"
)

// Stroke accumulates samples and keeps its meshes up to date.
type Stroke struct {
	cfg     Config
	log     *zap.Logger
	admitSq float32

	samples []Sample
	clean   int
	sealed  bool

	build  builder
	bottom mesh.Buffer
	shadow mesh.Buffer
}

// New creates an empty stroke.
func New(cfg Config) (*Stroke, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Stroke{
		cfg:     cfg,
		log:     log,
		admitSq: cfg.AdmitDistance * cfg.AdmitDistance,
		build:   newBuilder(cfg),
	}, nil
}

// Consider offers a sample. It reports whether the sample was kept; samples
// too close to the last accepted one are dropped without error.
func (s *Stroke) Consider(sample Sample) (bool, error) {
	if s.sealed {
		return false, ErrSealed
	}
	if err := sample.Validate(); err != nil {
		return false, err
	}

	if s.cfg.Style == Swatch {
		s.considerSwatch(sample)
		return true, nil
	}

	if n := len(s.samples); n > 0 && !s.cfg.IncrementalSimplify {
		if !simplify.Admit(s.samples[n-1].Position, sample.Position, s.admitSq) {
			return false, nil
		}
	}

	s.samples = append(s.samples, sample)
	s.rebuild(s.cfg.IncrementalSimplify, false)
	return true, nil
}

// considerSwatch keeps the first sample and replaces the second, so the quad
// always spans the first and latest points. The lateral direction is kept
// perpendicular to both the view direction and the diagonal.
func (s *Stroke) considerSwatch(sample Sample) {
	if len(s.samples) == 0 {
		sample.Right = sample.Right.Normalize()
		s.samples = append(s.samples, sample)
		return
	}

	first := &s.samples[0]
	lateral := sample.Forward.Cross(sample.Position.Sub(first.Position)).Normalize()
	if lateral == (math.Vec3{}) {
		lateral = first.Right
	}
	first.Right = lateral
	sample.Right = lateral

	if len(s.samples) == 1 {
		s.samples = append(s.samples, sample)
	} else {
		s.samples[1] = sample
	}
	s.rebuild(false, false)
}

// Finish seals the stroke, runs the final simplification and rebuilds all
// layers from scratch. It returns false for strokes too small to keep: a
// swatch without a diagonal, or a ribbon or tube left with fewer than 3
// samples.
func (s *Stroke) Finish() (bool, error) {
	if s.sealed {
		return false, ErrSealed
	}
	s.sealed = true

	if s.cfg.Style == Swatch {
		if len(s.samples) < 2 || s.samples[0].Position == s.samples[1].Position {
			s.log.Debug("discarding degenerate swatch", zap.Int("samples", len(s.samples)))
			return false, nil
		}
		return s.rebuild(false, true), nil
	}

	if !s.cfg.IncrementalSimplify {
		if kept, changed := simplify.DouglasPeucker(s.samples, samplePosition, s.cfg.Tolerance); changed {
			s.log.Debug("simplified stroke",
				zap.Int("before", len(s.samples)),
				zap.Int("after", len(kept)))
			s.samples = kept
		}
	}

	if len(s.samples) < 3 {
		s.log.Debug("discarding short stroke",
			zap.Stringer("style", s.cfg.Style),
			zap.Int("samples", len(s.samples)))
		return false, nil
	}

	s.invalidate()
	return s.rebuild(false, true), nil
}

// Samples returns a copy of the current samples.
func (s *Stroke) Samples() []Sample {
	return append([]Sample(nil), s.samples...)
}

// Len returns the number of samples.
func (s *Stroke) Len() int {
	return len(s.samples)
}

// CleanIndex returns how many leading samples already have geometry.
func (s *Stroke) CleanIndex() int {
	return s.clean
}

// Sealed reports whether Finish has been called.
func (s *Stroke) Sealed() bool {
	return s.sealed
}

// Style returns the stroke's style.
func (s *Stroke) Style() Style {
	return s.cfg.Style
}

// Mesh returns the main layer. The buffer is reused by later rebuilds.
func (s *Stroke) Mesh() *mesh.Buffer {
	return s.build.buffer()
}

// Bottom returns the reversed-winding layer, or nil when disabled.
func (s *Stroke) Bottom() *mesh.Buffer {
	if !s.cfg.Bottom {
		return nil
	}
	return &s.bottom
}

// Shadow returns the flattened layer, or nil when disabled.
func (s *Stroke) Shadow() *mesh.Buffer {
	if !s.cfg.Shadow {
		return nil
	}
	return &s.shadow
}

// Layers returns every enabled layer.
func (s *Stroke) Layers() Layers {
	return Layers{Main: s.Mesh(), Bottom: s.Bottom(), Shadow: s.Shadow()}
}

func (s *Stroke) String() string {
	return fmt.Sprintf("%s stroke (%d samples, clean %d, sealed %t)", s.cfg.Style, len(s.samples), s.clean, s.sealed)
}

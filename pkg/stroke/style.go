package stroke

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Style selects how a stroke turns its samples into geometry.
type Style int

const (
	// Ribbon is a flat double-sided strip through every sample.
	Ribbon Style = iota
	// Swatch is a single quad spanned by the first and latest point.
	Swatch
	// Tube sweeps a circular cross-section along the samples.
	Tube
)

var styleNames = map[Style]string{
	Ribbon: "ribbon",
	Swatch: "swatch",
	Tube:   "tube",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

// ParseStyle parses a style name, ignoring case.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range styleNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseLayer parses a layer name as printed by Layer.String.
func ParseLayer(s string) (Layer, error) {
	for l := LayerMain; l < LayerCount; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// Layer identifies one of the buffers a stroke hands to its Sink.
type Layer int

const (
	LayerMain Layer = iota
	LayerBottom
	LayerShadow

	// LayerCount is the number of layers.
	LayerCount = 3
)

func (l Layer) String() string {
	switch l {
	case LayerMain:
		return "main"
	case LayerBottom:
		return "bottom"
	case LayerShadow:
		return "shadow"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// Config holds the per-stroke options. Use DefaultConfig to get the flags
// that belong to a style.
type Config struct {
	Style Style

	// Bottom and Shadow derive the reversed-winding and flattened layers.
	Bottom bool
	Shadow bool

	// IncrementalSimplify runs Douglas-Peucker after every accepted sample
	// instead of the admission filter.
	IncrementalSimplify bool

	// EndCaps closes tubes with rounded caps of CapRings rings each.
	EndCaps  bool
	CapRings int

	// CrossSegments is the number of vertices per tube ring.
	CrossSegments int

	// Tolerance is the Douglas-Peucker distance and AdmitDistance the
	// minimum spacing between accepted samples. Both are linear distances.
	Tolerance     float32
	AdmitDistance float32

	// ShadowPlane is the Y of the plane the shadow layer is flattened onto.
	ShadowPlane float32

	// Profiles memoises tube cross-sections across strokes. Nil computes
	// the profile per stroke.
	Profiles *ProfileTable

	// Sink receives every rebuilt layer. May be nil.
	Sink Sink

	Logger *zap.Logger
}

// Default tuning values.
const (
	DefaultTolerance     = 0.3
	DefaultAdmitDistance = 0.1
	DefaultCrossSegments = 6
	DefaultCapRings      = 4
)

// DefaultConfig returns the configuration a style implies.
func DefaultConfig(style Style) Config {
	cfg := Config{
		Style:         style,
		Tolerance:     DefaultTolerance,
		AdmitDistance: DefaultAdmitDistance,
	}

	switch style {
	case Ribbon, Swatch:
		cfg.Bottom = true
		cfg.Shadow = true
	case Tube:
		cfg.IncrementalSimplify = true
		cfg.EndCaps = true
		cfg.CapRings = DefaultCapRings
		cfg.CrossSegments = DefaultCrossSegments
	}
	return cfg
}

// Validate checks the options a stroke depends on.
func (c Config) Validate() error {
	if !c.Style.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStyle, int(c.Style))
	}
	if c.Tolerance < 0 || c.AdmitDistance < 0 {
		return fmt.Errorf("%w: negative tolerance", ErrInvalidConfig)
	}
	if c.Style == Tube {
		if c.CrossSegments < 3 {
			return fmt.Errorf("%w: tube needs at least 3 cross segments, got %d", ErrInvalidConfig, c.CrossSegments)
		}
		if c.EndCaps && c.CapRings < 1 {
			return fmt.Errorf("%w: end caps need at least 1 ring, got %d", ErrInvalidConfig, c.CapRings)
		}
	}
	return nil
}

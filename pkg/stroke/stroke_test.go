package stroke

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
)

func at(x, y, z float32) Sample {
	return Sample{
		Position: math.Vec3{X: x, Y: y, Z: z},
		Right:    math.Vec3X,
		Forward:  math.Vec3Z,
		Width:    0.5,
	}
}

// helix returns n samples on a rising helix, far from collapsing under the
// default tolerance.
func helix(n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		a := float64(i) * 0.6
		out[i] = at(float32(3*gomath.Cos(a)), float32(i)*0.25, float32(3*gomath.Sin(a)))
	}
	return out
}

type commit struct {
	layer    Layer
	vertices int
	optimize bool
}

type recorder struct {
	commits []commit
}

func (r *recorder) Commit(layer Layer, buf *mesh.Buffer, optimize bool) {
	r.commits = append(r.commits, commit{layer: layer, vertices: buf.VertexCount(), optimize: optimize})
}

func newStroke(t *testing.T, cfg Config) *Stroke {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func feed(t *testing.T, s *Stroke, samples []Sample) {
	t.Helper()
	for _, sample := range samples {
		_, err := s.Consider(sample)
		require.NoError(t, err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Style: Style(9)})
	assert.ErrorIs(t, err, ErrUnknownStyle)

	cfg := DefaultConfig(Tube)
	cfg.CrossSegments = 2
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConsiderRejectsInvalidSample(t *testing.T) {
	s := newStroke(t, DefaultConfig(Ribbon))
	bad := at(0, 0, 0)
	bad.Width = 0

	ok, err := s.Consider(bad)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidSample)
	assert.Zero(t, s.Len())
}

func TestAdmissionFilter(t *testing.T) {
	cfg := DefaultConfig(Ribbon)
	cfg.AdmitDistance = 0.1
	s := newStroke(t, cfg)

	tests := []struct {
		name   string
		sample Sample
		want   bool
	}{
		{"first sample", at(0, 0, 0), true},
		{"too close", at(0, 0, 0.05), false},
		{"same point", at(0, 0, 0), false},
		{"exactly at threshold", at(0, 0, 0.1), true},
		{"far", at(0, 0, 1), true},
	}

	for _, tt := range tests {
		ok, err := s.Consider(tt.sample)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, ok, tt.name)
	}
	assert.Equal(t, 3, s.Len())
}

func TestCleanIndexTracksGeometry(t *testing.T) {
	s := newStroke(t, DefaultConfig(Ribbon))

	feed(t, s, []Sample{at(0, 0, 0)})
	assert.Zero(t, s.CleanIndex())
	assert.True(t, s.Mesh().Empty())

	for i := 1; i < 6; i++ {
		feed(t, s, []Sample{at(float32(i%2), 0, float32(i))})
		assert.Equal(t, s.Len(), s.CleanIndex())
		assert.Equal(t, 2*s.Len(), s.Mesh().VertexCount())
	}
}

func TestRibbonGeometry(t *testing.T) {
	samples := helix(7)
	layers, err := Build(DefaultConfig(Ribbon), samples)
	require.NoError(t, err)

	m := layers.Main
	require.NoError(t, m.Validate())
	assert.Equal(t, 2*len(samples), m.VertexCount())
	assert.Len(t, m.Triangles, 6*(len(samples)-1))

	for i, s := range samples {
		offset := s.Right.Scale(s.Width)
		assert.Equal(t, s.Position.Sub(offset), m.Vertices[2*i])
		assert.Equal(t, s.Position.Add(offset), m.Vertices[2*i+1])

		v := float32(i) / float32(len(samples)-1)
		assert.Equal(t, math.Vec2{X: 0, Y: v}, m.UVs[2*i])
		assert.Equal(t, math.Vec2{X: 1, Y: v}, m.UVs[2*i+1])
	}

	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3}, m.Triangles[:6])
}

func TestRibbonFacesAndLayers(t *testing.T) {
	cfg := DefaultConfig(Ribbon)
	cfg.ShadowPlane = -3
	// Travelling +Z with lateral +X puts the front face towards +Y.
	layers, err := Build(cfg, []Sample{at(0, 1, 0), at(0, 1, 1), at(0, 1, 2)})
	require.NoError(t, err)

	for _, n := range layers.Main.Normals() {
		assert.InDelta(t, 1, n.Y, 1e-5)
	}
	require.NotNil(t, layers.Bottom)
	for _, n := range layers.Bottom.Normals() {
		assert.InDelta(t, -1, n.Y, 1e-5)
	}
	require.NotNil(t, layers.Shadow)
	for _, v := range layers.Shadow.Vertices {
		assert.Equal(t, float32(-3), v.Y)
	}
	assert.Equal(t, layers.Main.Triangles, layers.Shadow.Triangles)
}

func TestTubeGeometry(t *testing.T) {
	cfg := DefaultConfig(Tube)
	n := cfg.CrossSegments
	c := cfg.CapRings
	samples := []Sample{at(0, 0, 0), at(0, 0, 1), at(0, 0, 2), at(0, 0, 3)}

	layers, err := Build(cfg, samples)
	require.NoError(t, err)
	assert.Nil(t, layers.Bottom)
	assert.Nil(t, layers.Shadow)

	m := layers.Main
	require.NoError(t, m.Validate())
	assert.Equal(t, n*(len(samples)+2*c), m.VertexCount())
	assert.Zero(t, m.VertexCount()%n)

	joins := len(samples) + 2*c - 1
	assert.Equal(t, joins*2*n, m.TriangleCount())

	// Rings of a straight tube are circles of radius Width around each sample.
	for i, s := range samples {
		start := (c + i) * n
		for k := 0; k < n; k++ {
			v := m.Vertices[start+k]
			assert.InDelta(t, s.Position.Z, v.Z, 1e-5)
			assert.InDelta(t, s.Width, v.Sub(s.Position).Length(), 1e-5)
			assert.InDelta(t, float32(k)/float32(n), m.UVs[start+k].X, 1e-6)
			assert.Equal(t, float32(i), m.UVs[start+k].Y)
		}
	}

	// Caps close to a point one width beyond each end.
	for k := 0; k < n; k++ {
		assert.True(t, m.Vertices[k].ApproxEqual(math.Vec3{Z: -0.5}, 1e-5), "start apex %v", m.Vertices[k])
		last := m.Vertices[m.VertexCount()-n+k]
		assert.True(t, last.ApproxEqual(math.Vec3{Z: 3.5}, 1e-5), "end apex %v", last)
	}
}

func TestTubeSeamWrapsAround(t *testing.T) {
	cfg := DefaultConfig(Tube)
	cfg.EndCaps = false
	n := uint32(cfg.CrossSegments)

	layers, err := Build(cfg, []Sample{at(0, 0, 0), at(0, 0, 1)})
	require.NoError(t, err)

	tris := layers.Main.Triangles
	require.Len(t, tris, int(6*n))

	// The last quad of the join closes back to vertex 0 of each ring.
	last := tris[len(tris)-6:]
	assert.Equal(t, []uint32{n - 1, 0, 2*n - 1, 0, n, 2*n - 1}, last)

	// Every face points away from the axis.
	m := layers.Main
	for i := 0; i < len(tris); i += 3 {
		a, b, c := m.Vertices[tris[i]], m.Vertices[tris[i+1]], m.Vertices[tris[i+2]]
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		radial := math.Vec3{X: centroid.X, Y: centroid.Y}
		assert.Positive(t, normal.Dot(radial), "triangle %d faces inward", i/3)
	}
}

func TestTubeTerminalRegionRegenerated(t *testing.T) {
	cfg := DefaultConfig(Tube)
	cfg.IncrementalSimplify = false
	cfg.AdmitDistance = 0
	n := cfg.CrossSegments
	c := cfg.CapRings
	s := newStroke(t, cfg)

	samples := helix(8)
	for i, sample := range samples {
		feed(t, s, []Sample{sample})
		if i == 0 {
			continue
		}
		m := s.Mesh()
		require.NoError(t, m.Validate())
		assert.Equal(t, n*(i+1+2*c), m.VertexCount(), "after %d samples", i+1)

		// The end cap apex sits past the newest sample, never an older one.
		apex := m.Vertices[m.VertexCount()-1]
		assert.InDelta(t, sample.Width, apex.Distance(sample.Position), 1e-4)
	}
}

func TestIncrementalMatchesBatch(t *testing.T) {
	tubeNoSimplify := DefaultConfig(Tube)
	tubeNoSimplify.IncrementalSimplify = false

	tests := []struct {
		name string
		cfg  Config
	}{
		{"ribbon", DefaultConfig(Ribbon)},
		{"tube", DefaultConfig(Tube)},
		{"tube with admission", tubeNoSimplify},
		{"swatch", DefaultConfig(Swatch)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStroke(t, tt.cfg)
			for _, sample := range helix(12) {
				feed(t, s, []Sample{sample})
				assertMatchesBatch(t, tt.cfg, s)
			}

			ok, err := s.Finish()
			require.NoError(t, err)
			require.True(t, ok)
			assertMatchesBatch(t, tt.cfg, s)
		})
	}
}

func assertMatchesBatch(t *testing.T, cfg Config, s *Stroke) {
	t.Helper()
	if s.Len() < 2 {
		return
	}
	want, err := Build(cfg, s.Samples())
	require.NoError(t, err)

	assert.Equal(t, want.Main.Vertices, s.Mesh().Vertices)
	assert.Equal(t, want.Main.UVs, s.Mesh().UVs)
	assert.Equal(t, want.Main.Triangles, s.Mesh().Triangles)
	if cfg.Bottom {
		assert.Equal(t, want.Bottom.Triangles, s.Bottom().Triangles)
	}
	if cfg.Shadow {
		assert.Equal(t, want.Shadow.Vertices, s.Shadow().Vertices)
	}
}

func TestIncrementalSimplifyBoundsSamples(t *testing.T) {
	s := newStroke(t, DefaultConfig(Tube))
	for i := 0; i < 20; i++ {
		feed(t, s, []Sample{at(0, 0, float32(i))})
		assert.LessOrEqual(t, s.Len(), 3)
		if s.Len() >= 2 {
			assert.Equal(t, s.Len(), s.CleanIndex())
		}
	}
}

func TestStraightLineCollapsesOnFinish(t *testing.T) {
	cfg := DefaultConfig(Ribbon)
	cfg.Tolerance = 0.01
	s := newStroke(t, cfg)
	feed(t, s, []Sample{at(0, 0, 0), at(0, 0, 1), at(0, 0, 2), at(0, 0, 3), at(0, 0, 4)})
	require.Equal(t, 5, s.Len())

	ok, err := s.Finish()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestRightAngleSurvivesFinish(t *testing.T) {
	cfg := DefaultConfig(Ribbon)
	cfg.Tolerance = 0.01
	s := newStroke(t, cfg)
	feed(t, s, []Sample{at(0, 0, 0), at(10, 0, 0), at(10, 0, 10)})

	ok, err := s.Finish()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 6, s.Mesh().VertexCount())
}

func TestFinishSeals(t *testing.T) {
	s := newStroke(t, DefaultConfig(Ribbon))
	feed(t, s, helix(5))

	ok, err := s.Finish()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, s.Sealed())

	n := s.Len()
	before := s.Mesh().Clone()

	_, err = s.Finish()
	assert.ErrorIs(t, err, ErrSealed)

	ok, err = s.Consider(at(9, 9, 9))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrSealed)
	assert.Equal(t, n, s.Len())
	assert.Equal(t, before, s.Mesh())
}

func TestFinishDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		style   Style
		samples []Sample
	}{
		{"empty ribbon", Ribbon, nil},
		{"two sample ribbon", Ribbon, []Sample{at(0, 0, 0), at(0, 0, 5)}},
		{"two sample tube", Tube, []Sample{at(0, 0, 0), at(0, 0, 5)}},
		{"single point swatch", Swatch, []Sample{at(1, 1, 1)}},
		{"zero diagonal swatch", Swatch, []Sample{at(1, 1, 1), at(1, 1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStroke(t, DefaultConfig(tt.style))
			feed(t, s, tt.samples)
			ok, err := s.Finish()
			require.NoError(t, err)
			assert.False(t, ok)
			assert.True(t, s.Sealed())
		})
	}
}

func TestSwatchRewritesSecondSample(t *testing.T) {
	s := newStroke(t, DefaultConfig(Swatch))

	first := at(0, 0, 0)
	first.Forward = math.Vec3{Z: -1}
	feed(t, s, []Sample{first})

	for _, p := range []math.Vec3{{X: 1}, {X: 2, Y: 1}, {X: 3, Y: 3}} {
		next := Sample{Position: p, Right: math.Vec3X, Forward: math.Vec3{Z: -1}, Width: 0.5}
		ok, err := s.Consider(next)
		require.NoError(t, err)
		assert.True(t, ok)

		samples := s.Samples()
		require.Len(t, samples, 2)
		assert.Equal(t, p, samples[1].Position)

		lateral := samples[0].Right
		assert.Equal(t, lateral, samples[1].Right)
		assert.InDelta(t, 1, lateral.Length(), 1e-5)
		assert.InDelta(t, 0, lateral.Dot(p), 1e-5)
		assert.InDelta(t, 0, lateral.Dot(next.Forward), 1e-5)

		assert.Equal(t, 4, s.Mesh().VertexCount())
		assert.Equal(t, 2, s.Mesh().TriangleCount())
	}
}

func TestSwatchKeepsLateralWhenDegenerate(t *testing.T) {
	s := newStroke(t, DefaultConfig(Swatch))
	feed(t, s, []Sample{at(0, 0, 0), at(1, 0, 0)})
	lateral := s.Samples()[0].Right

	// Moving along the view direction gives no cross product.
	feed(t, s, []Sample{at(0, 0, 2)})
	assert.Equal(t, lateral, s.Samples()[1].Right)
}

func TestSinkReceivesLayers(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig(Ribbon)
	cfg.Sink = rec
	s := newStroke(t, cfg)

	feed(t, s, []Sample{at(0, 0, 0)})
	assert.Empty(t, rec.commits)

	feed(t, s, []Sample{at(0, 0, 1)})
	require.Len(t, rec.commits, 3)
	assert.Equal(t, []Layer{LayerMain, LayerBottom, LayerShadow},
		[]Layer{rec.commits[0].layer, rec.commits[1].layer, rec.commits[2].layer})
	for _, c := range rec.commits {
		assert.False(t, c.optimize)
		assert.Equal(t, 4, c.vertices)
	}

	feed(t, s, []Sample{at(1, 0, 2)})
	rec.commits = nil
	ok, err := s.Finish()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rec.commits, 3)
	for _, c := range rec.commits {
		assert.True(t, c.optimize)
	}
}

func TestSinkTubeMainOnly(t *testing.T) {
	var layers []Layer
	cfg := DefaultConfig(Tube)
	cfg.Sink = SinkFunc(func(layer Layer, _ *mesh.Buffer, _ bool) {
		layers = append(layers, layer)
	})
	s := newStroke(t, cfg)
	feed(t, s, helix(3))
	assert.Equal(t, []Layer{LayerMain, LayerMain}, layers)
}

func TestBuildRejectsInvalidSample(t *testing.T) {
	samples := helix(3)
	samples[1].Position.Y = float32(gomath.NaN())
	_, err := Build(DefaultConfig(Ribbon), samples)
	assert.ErrorIs(t, err, ErrInvalidSample)
}

func TestBuildShortInput(t *testing.T) {
	layers, err := Build(DefaultConfig(Ribbon), helix(1))
	require.NoError(t, err)
	assert.True(t, layers.Main.Empty())
}

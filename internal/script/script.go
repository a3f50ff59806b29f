// Package script reads and writes YAML stroke scripts: recorded or hand-written
// sample sequences that can be replayed through the stroke builder.
//
//	strokes:
//	  - name: zigzag
//	    style: ribbon
//	    width: 0.2
//	    points:
//	      - [0, 0, 0]
//	      - [1, 1, 0]
//	  - style: tube
//	    color: [0.2, 0.7, 0.65, 1]
//	    samples:
//	      - {position: [0, 0, 0], right: [1, 0, 0], forward: [0, 0, -1], width: 0.1}
package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

// Script errors.
var (
	ErrNoSamples = errors.New("stroke script has no samples")
	ErrNoStrokes = errors.New("script has no strokes")
)

// Defaults applied to points and samples that leave fields out.
var (
	DefaultRight   = [3]float32{1, 0, 0}
	DefaultForward = [3]float32{0, 0, -1}
)

// DefaultWidth is used when neither the sample nor the stroke sets a width.
const DefaultWidth = 0.1

// File is a script document.
type File struct {
	Strokes []Stroke `yaml:"strokes"`
}

// Stroke describes one stroke. Points is shorthand for samples that share
// the stroke's Right, Forward and Width.
type Stroke struct {
	Name    string        `yaml:"name,omitempty"`
	Style   stroke.Style  `yaml:"style"`
	Width   float32       `yaml:"width,omitempty"`
	Right   *[3]float32   `yaml:"right,omitempty"`
	Forward *[3]float32   `yaml:"forward,omitempty"`
	Color   *[4]float32   `yaml:"color,omitempty,flow"`
	Points  [][3]float32  `yaml:"points,omitempty"`
	Samples []SampleEntry `yaml:"samples,omitempty"`
}

// SampleEntry is one fully specified sample. Omitted fields fall back to the stroke.
type SampleEntry struct {
	Position [3]float32  `yaml:"position,flow"`
	Right    *[3]float32 `yaml:"right,omitempty,flow"`
	Forward  *[3]float32 `yaml:"forward,omitempty,flow"`
	Width    float32     `yaml:"width,omitempty"`
}

// Parse decodes a script.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Strokes) == 0 {
		return nil, ErrNoStrokes
	}
	return &f, nil
}

// Load reads and decodes a script file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Save writes the script as YAML.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Label returns the stroke's name, or its position in the file.
func (s *Stroke) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("stroke%d", index)
}

// Expand expands the stroke into validated samples, points first.
func (s *Stroke) Expand() ([]stroke.Sample, error) {
	if len(s.Points) == 0 && len(s.Samples) == 0 {
		return nil, ErrNoSamples
	}

	right := pick(s.Right, DefaultRight)
	forward := pick(s.Forward, DefaultForward)
	width := s.Width
	if width == 0 {
		width = DefaultWidth
	}

	out := make([]stroke.Sample, 0, len(s.Points)+len(s.Samples))
	for _, p := range s.Points {
		out = append(out, stroke.Sample{
			Position: math.Vec3FromArray(p),
			Right:    right,
			Forward:  forward,
			Width:    width,
		})
	}
	for _, e := range s.Samples {
		sample := stroke.Sample{
			Position: math.Vec3FromArray(e.Position),
			Right:    pick(e.Right, right.Array()),
			Forward:  pick(e.Forward, forward.Array()),
			Width:    e.Width,
		}
		if sample.Width == 0 {
			sample.Width = width
		}
		out = append(out, sample)
	}

	for i, sample := range out {
		if err := sample.Validate(); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return out, nil
}

func pick(v *[3]float32, fallback [3]float32) math.Vec3 {
	if v != nil {
		return math.Vec3FromArray(*v)
	}
	return math.Vec3FromArray(fallback)
}

// FromSamples records samples as a script stroke.
func FromSamples(name string, style stroke.Style, samples []stroke.Sample) Stroke {
	s := Stroke{Name: name, Style: style, Samples: make([]SampleEntry, len(samples))}
	for i, sample := range samples {
		right := sample.Right.Array()
		forward := sample.Forward.Array()
		s.Samples[i] = SampleEntry{
			Position: sample.Position.Array(),
			Right:    &right,
			Forward:  &forward,
			Width:    sample.Width,
		}
	}
	return s
}

// Package config handles strokemesh configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/strokemesh/pkg/stroke"
)

// Config holds all settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Stroke  StrokeConfig  `yaml:"stroke"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds window and camera settings for the interactive viewer.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"`            // Vertical field of view in degrees
	Distance   float32 `yaml:"orbit_distance"` // Initial camera distance
	BrushDepth float32 `yaml:"brush_depth"`    // Distance in front of the camera new strokes are drawn at
	Smoothing  float32 `yaml:"smoothing"`      // Brush follow rate per second, 0 disables

	// Palette lists the stroke colors the K key cycles through, as RGBA in [0, 1].
	Palette [][4]float32 `yaml:"palette"`
}

// StrokeConfig holds stroke tuning. Zero values keep the style defaults.
type StrokeConfig struct {
	Style         string  `yaml:"style"`
	Width         float32 `yaml:"width"`
	Tolerance     float32 `yaml:"tolerance"`
	AdmitDistance float32 `yaml:"admit_distance"`
	CrossSegments int     `yaml:"cross_segments"`
	CapRings      int     `yaml:"cap_rings"`
	ShadowPlane   float32 `yaml:"shadow_plane"`

	// IncrementalSimplify overrides the style default when set.
	IncrementalSimplify *bool `yaml:"incremental_simplify,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        60,
			Distance:   12,
			BrushDepth: 6,
			Smoothing:  10,
			Palette: [][4]float32{
				{0.95, 0.55, 0.2, 1},
				{0.2, 0.7, 0.65, 1},
				{0.6, 0.4, 0.85, 1},
				{0.85, 0.25, 0.25, 1},
				{0.9, 0.9, 0.9, 1},
			},
		},
		Stroke: StrokeConfig{
			Style:         "ribbon",
			Width:         0.15,
			Tolerance:     stroke.DefaultTolerance,
			AdmitDistance: stroke.DefaultAdmitDistance,
			CrossSegments: stroke.DefaultCrossSegments,
			CapRings:      stroke.DefaultCapRings,
			ShadowPlane:   0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// DefaultStyle parses the configured style.
func (s StrokeConfig) DefaultStyle() (stroke.Style, error) {
	return stroke.ParseStyle(s.Style)
}

// Options returns the stroke configuration for style with these overrides applied.
func (s StrokeConfig) Options(style stroke.Style) stroke.Config {
	cfg := stroke.DefaultConfig(style)
	if s.Tolerance > 0 {
		cfg.Tolerance = s.Tolerance
	}
	if s.AdmitDistance > 0 {
		cfg.AdmitDistance = s.AdmitDistance
	}
	if style == stroke.Tube {
		if s.CrossSegments > 0 {
			cfg.CrossSegments = s.CrossSegments
		}
		if s.CapRings > 0 {
			cfg.CapRings = s.CapRings
		}
	}
	cfg.ShadowPlane = s.ShadowPlane
	if s.IncrementalSimplify != nil {
		cfg.IncrementalSimplify = *s.IncrementalSimplify
	}
	return cfg
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	style, err := c.Stroke.DefaultStyle()
	if err != nil {
		return fmt.Errorf("stroke.style: %w", err)
	}
	if c.Stroke.Width <= 0 {
		return fmt.Errorf("stroke.width must be positive, got %v", c.Stroke.Width)
	}
	if err := c.Stroke.Options(style).Validate(); err != nil {
		return fmt.Errorf("stroke: %w", err)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	for i, color := range c.Viewer.Palette {
		for _, v := range color {
			if v < 0 || v > 1 {
				return fmt.Errorf("viewer.palette[%d]: components must be in [0, 1], got %v", i, color)
			}
		}
	}
	return nil
}

package config

import "flag"

// Flags holds the command-line overrides registered by RegisterFlags.
type Flags struct {
	config     *string
	debug      *bool
	style      *string
	width      *float64
	tolerance  *float64
	windowed   *bool
	fullscreen *bool
	winWidth   *int
	winHeight  *int
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:     fs.String("config", "", "Path to config file"),
		debug:      fs.Bool("debug", false, "Enable debug logging"),
		style:      fs.String("style", "", "Stroke style: ribbon, swatch or tube"),
		width:      fs.Float64("stroke-width", 0, "Stroke half-width"),
		tolerance:  fs.Float64("tolerance", 0, "Simplification tolerance"),
		windowed:   fs.Bool("windowed", false, "Run in windowed mode"),
		fullscreen: fs.Bool("fullscreen", false, "Run in fullscreen mode"),
		winWidth:   fs.Int("width", 0, "Window width"),
		winHeight:  fs.Int("height", 0, "Window height"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.style != "" {
		cfg.Stroke.Style = *f.style
	}
	if *f.width > 0 {
		cfg.Stroke.Width = float32(*f.width)
	}
	if *f.tolerance > 0 {
		cfg.Stroke.Tolerance = float32(*f.tolerance)
	}
	if *f.windowed {
		cfg.Viewer.Fullscreen = false
	}
	if *f.fullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *f.winWidth > 0 {
		cfg.Viewer.Width = *f.winWidth
	}
	if *f.winHeight > 0 {
		cfg.Viewer.Height = *f.winHeight
	}
}

package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/strokemesh/pkg/stroke"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Viewer defaults
	if cfg.Viewer.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Viewer.Height)
	}
	if cfg.Viewer.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Viewer.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Stroke defaults
	if cfg.Stroke.Style != "ribbon" {
		t.Errorf("expected style ribbon, got %s", cfg.Stroke.Style)
	}
	if cfg.Stroke.Tolerance != stroke.DefaultTolerance {
		t.Errorf("expected tolerance %v, got %v", stroke.DefaultTolerance, cfg.Stroke.Tolerance)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
viewer:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  brush_depth: 4.5

stroke:
  style: tube
  width: 0.25
  tolerance: 0.05
  cross_segments: 8
  incremental_simplify: false

logging:
  level: "debug"
  log_file: "strokes.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewer.Width != 1920 || cfg.Viewer.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if !cfg.Viewer.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Viewer.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Viewer.BrushDepth != 4.5 {
		t.Errorf("expected brush depth 4.5, got %v", cfg.Viewer.BrushDepth)
	}

	// Untouched keys keep their defaults
	if cfg.Viewer.FOV != 60 {
		t.Errorf("expected default fov 60, got %v", cfg.Viewer.FOV)
	}

	opts := cfg.Stroke.Options(stroke.Tube)
	if opts.CrossSegments != 8 {
		t.Errorf("expected 8 cross segments, got %d", opts.CrossSegments)
	}
	if opts.Tolerance != 0.05 {
		t.Errorf("expected tolerance 0.05, got %v", opts.Tolerance)
	}
	if opts.IncrementalSimplify {
		t.Error("expected incremental simplify override to disable it")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "strokes.log" {
		t.Errorf("expected log file 'strokes.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
viewer:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdirForTest(t, t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("strokemesh.yaml", []byte("viewer:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find strokemesh.yaml in current directory")
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "stroke:\n  style: swatch\n  width: 0.5\nviewer:\n  width: 800\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-style", "tube", "-debug"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Flag beats file
	if cfg.Stroke.Style != "tube" {
		t.Errorf("expected style from flag, got %s", cfg.Stroke.Style)
	}
	// File beats default
	if cfg.Stroke.Width != 0.5 {
		t.Errorf("expected width from file, got %v", cfg.Stroke.Width)
	}
	if cfg.Viewer.Width != 800 {
		t.Errorf("expected viewer width from file, got %d", cfg.Viewer.Width)
	}
	// Default survives
	if cfg.Viewer.Height != 720 {
		t.Errorf("expected default height, got %d", cfg.Viewer.Height)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level from flag, got %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("stroke:\n  style: brush\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	_, err := Load(flags)
	if !errors.Is(err, stroke.ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}
}

func TestPalette(t *testing.T) {
	cfg := Default()
	if len(cfg.Viewer.Palette) == 0 {
		t.Fatal("expected a default palette")
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "viewer:\n  palette:\n    - [1, 0, 0, 1]\n    - [0, 0, 1, 0.5]\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Viewer.Palette) != 2 || cfg.Viewer.Palette[1] != [4]float32{0, 0, 1, 0.5} {
		t.Errorf("palette not replaced: %v", cfg.Viewer.Palette)
	}

	cfg.Viewer.Palette[0][1] = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected out-of-range palette color to be rejected")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "windowed flag",
			args: []string{"-windowed"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
		},
		{
			name: "fullscreen flag",
			args: []string{"-fullscreen"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Viewer.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
		},
		{
			name: "width and height flags",
			args: []string{"-width", "2560", "-height", "1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.Width != 2560 || cfg.Viewer.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
				}
			},
		},
		{
			name: "stroke flags",
			args: []string{"-stroke-width", "0.75", "-tolerance", "0.125"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Stroke.Width != 0.75 {
					t.Errorf("expected stroke width 0.75, got %v", cfg.Stroke.Width)
				}
				if cfg.Stroke.Tolerance != 0.125 {
					t.Errorf("expected tolerance 0.125, got %v", cfg.Stroke.Tolerance)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg := Default()
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestNilFlags(t *testing.T) {
	var flags *Flags
	if flags.ConfigPath() != "" {
		t.Error("nil flags should have no config path")
	}
	cfg := Default()
	flags.apply(cfg)
	if cfg.Stroke.Style != "ribbon" {
		t.Errorf("nil flags changed config: %s", cfg.Stroke.Style)
	}
}

func TestStrokeOptions(t *testing.T) {
	sc := Default().Stroke
	sc.ShadowPlane = -1
	sc.CrossSegments = 12

	ribbon := sc.Options(stroke.Ribbon)
	if !ribbon.Bottom || !ribbon.Shadow {
		t.Error("ribbon should keep bottom and shadow layers")
	}
	if ribbon.CrossSegments != 0 {
		t.Errorf("ribbon should ignore cross segments, got %d", ribbon.CrossSegments)
	}
	if ribbon.ShadowPlane != -1 {
		t.Errorf("expected shadow plane -1, got %v", ribbon.ShadowPlane)
	}

	tube := sc.Options(stroke.Tube)
	if tube.CrossSegments != 12 {
		t.Errorf("expected 12 cross segments, got %d", tube.CrossSegments)
	}
	if !tube.IncrementalSimplify || !tube.EndCaps {
		t.Error("tube should keep incremental simplify and end caps")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Stroke.Style = "swatch"
	cfg.Viewer.Width = 640
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Stroke.Style != "swatch" || loaded.Viewer.Width != 640 {
		t.Errorf("saved values not restored: %+v", loaded)
	}
}

func TestSaveUsesDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	chdirForTest(t, dir)

	cfg := Default()
	cfg.Stroke.Style = "tube"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(DefaultPath()); err != nil {
		t.Fatalf("expected config at %s: %v", DefaultPath(), err)
	}

	// Load finds the saved file without an explicit path.
	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Stroke.Style != "tube" {
		t.Errorf("expected style tube, got %s", loaded.Stroke.Style)
	}
}

func TestLoggerOptions(t *testing.T) {
	var console bytes.Buffer
	l := Default().Logging
	opts := l.LoggerOptions(&console)
	if opts.File.Path != "" {
		t.Error("expected no file output without log_file")
	}
	if opts.Console != &console {
		t.Error("expected console writer to be passed through")
	}

	l.LogFile = "/tmp/strokes.log"
	opts = l.LoggerOptions(nil)
	if opts.File.Path != "/tmp/strokes.log" || opts.File.MaxBackups != 3 {
		t.Errorf("unexpected file options: %+v", opts.File)
	}
}

// chdirForTest changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

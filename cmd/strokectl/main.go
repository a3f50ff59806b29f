// strokectl builds, simplifies and inspects stroke scripts from the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/internal/config"
	"github.com/Faultbox/strokemesh/internal/logger"
	"github.com/Faultbox/strokemesh/internal/script"
	"github.com/Faultbox/strokemesh/pkg/math"
	"github.com/Faultbox/strokemesh/pkg/mesh"
	"github.com/Faultbox/strokemesh/pkg/simplify"
	"github.com/Faultbox/strokemesh/pkg/stroke"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command, args := args[0], args[1:]

	var err error
	switch command {
	case "build":
		err = cmdBuild(args, stdout, stderr)
	case "simplify":
		err = cmdSimplify(args, stdout, stderr)
	case "stats", "info":
		err = cmdStats(args, stdout, stderr)
	case "profile":
		err = cmdProfile(args, stdout)
	case "config":
		err = cmdConfig(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	logger.Sync()
	if errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `strokectl - stroke mesh utility

Usage:
  strokectl <command> [options]

Commands:
  build <script.yaml>      Build stroke meshes and write them as OBJ
  simplify <script.yaml>   Simplify stroke samples and report the reduction
  stats <script.yaml>      Show per-stroke sample and geometry counts
  profile <n>              Print the unit cross-section used by n-segment tubes
  config                   Write the effective configuration as YAML

Examples:
  strokectl build strokes.yaml -o strokes.obj
  strokectl build strokes.yaml -layer all -replay
  strokectl simplify strokes.yaml -tolerance 0.5 -o simplified.yaml
  strokectl profile 6
  strokectl config -style tube -stroke-width 0.2`)
}

// session is the shared setup of the script commands.
type session struct {
	cfg  *config.Config
	file *script.File
	log  *zap.Logger
}

// parse parses fs, loads the config named by its flags, starts logging to
// stderr and loads the script given as the first positional argument.
func parse(fs *flag.FlagSet, args []string, stderr io.Writer) (*session, error) {
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return nil, errUsage
	}
	if len(positional) < 1 {
		fmt.Fprintf(stderr, "Usage: strokectl %s <script.yaml> [options]\n", fs.Name())
		fs.PrintDefaults()
		return nil, errUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.LoggerOptions(stderr)); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	file, err := script.Load(positional[0])
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, file: file, log: logger.Named(fs.Name())}, nil
}

// parseInterleaved lets flags follow positional arguments, as in
// "strokectl build in.yaml -o out.obj".
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// samples expands stroke i, using the configured width where the script has none.
func (s *session) samples(i int) ([]stroke.Sample, error) {
	st := s.file.Strokes[i]
	if st.Width == 0 {
		st.Width = s.cfg.Stroke.Width
	}
	samples, err := st.Expand()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", st.Label(i), err)
	}
	return samples, nil
}

func (s *session) options(style stroke.Style) stroke.Config {
	cfg := s.cfg.Stroke.Options(style)
	cfg.Logger = s.log
	return cfg
}

// build produces the layers for stroke i. With replay set the samples go
// through a live stroke one at a time, so admission filtering and
// incremental simplification apply exactly as they do while drawing.
func (s *session) build(i int, replay bool) (stroke.Layers, bool, error) {
	st := s.file.Strokes[i]
	samples, err := s.samples(i)
	if err != nil {
		return stroke.Layers{}, false, err
	}
	cfg := s.options(st.Style)

	if !replay {
		layers, err := stroke.Build(cfg, samples)
		return layers, err == nil, err
	}

	live, err := stroke.New(cfg)
	if err != nil {
		return stroke.Layers{}, false, err
	}
	for _, smp := range samples {
		if _, err := live.Consider(smp); err != nil {
			return stroke.Layers{}, false, err
		}
	}
	ok, err := live.Finish()
	if err != nil {
		return stroke.Layers{}, false, err
	}
	return live.Layers(), ok, nil
}

func cmdBuild(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	output := fs.String("o", "", "Output OBJ file (default stdout)")
	layerName := fs.String("layer", "main", "Layer to export: main, bottom, shadow or all")
	only := fs.String("stroke", "", "Only build the stroke with this name")
	replay := fs.Bool("replay", false, "Feed samples through a live stroke instead of a one-shot build")

	s, err := parse(fs, args, stderr)
	if err != nil {
		return err
	}

	var layers []stroke.Layer
	if *layerName == "all" {
		layers = []stroke.Layer{stroke.LayerMain, stroke.LayerBottom, stroke.LayerShadow}
	} else {
		l, err := stroke.ParseLayer(*layerName)
		if err != nil {
			return err
		}
		layers = []stroke.Layer{l}
	}

	w := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	obj := mesh.NewOBJWriter(w)
	written := 0
	for i := range s.file.Strokes {
		label := s.file.Strokes[i].Label(i)
		if *only != "" && label != *only {
			continue
		}

		built, ok, err := s.build(i, *replay)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		if !ok {
			s.log.Warn("stroke too small to keep", zap.String("stroke", label))
			continue
		}

		for _, layer := range layers {
			buf := built.Get(layer)
			if buf == nil || buf.Empty() {
				continue
			}
			name := label
			if len(layers) > 1 {
				name = label + "." + layer.String()
			}
			obj.Write(name, buf)
			written++
		}
	}
	if err := obj.Flush(); err != nil {
		return err
	}

	if written == 0 {
		return fmt.Errorf("no geometry written")
	}
	s.log.Info("wrote meshes", zap.Int("objects", written), zap.String("output", *output))
	return nil
}

func cmdSimplify(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("simplify", flag.ContinueOnError)
	radial := fs.Bool("radial", false, "Use the radial distance filter instead of Douglas-Peucker")
	output := fs.String("o", "", "Write the simplified script to this file")

	s, err := parse(fs, args, stderr)
	if err != nil {
		return err
	}
	tolerance := s.cfg.Stroke.Tolerance

	out := &script.File{Strokes: make([]script.Stroke, 0, len(s.file.Strokes))}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STROKE\tSTYLE\tBEFORE\tAFTER")

	for i, st := range s.file.Strokes {
		samples, err := s.samples(i)
		if err != nil {
			return err
		}

		var kept []stroke.Sample
		if *radial {
			kept, _ = simplify.Radial(samples, samplePos, tolerance)
		} else {
			kept, _ = simplify.DouglasPeucker(samples, samplePos, tolerance)
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", st.Label(i), st.Style, len(samples), len(kept))
		out.Strokes = append(out.Strokes, script.FromSamples(st.Label(i), st.Style, kept))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *output != "" {
		return out.Save(*output)
	}
	return nil
}

func samplePos(s stroke.Sample) math.Vec3 {
	return s.Position
}

func cmdStats(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	replay := fs.Bool("replay", false, "Feed samples through a live stroke instead of a one-shot build")

	s, err := parse(fs, args, stderr)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STROKE\tSTYLE\tSAMPLES\tVERTICES\tTRIANGLES\tSIZE")
	for i, st := range s.file.Strokes {
		samples, err := s.samples(i)
		if err != nil {
			return err
		}
		built, ok, err := s.build(i, *replay)
		if err != nil {
			return fmt.Errorf("%s: %w", st.Label(i), err)
		}
		if !ok {
			fmt.Fprintf(tw, "%s\t%s\t%d\t-\t-\tdiscarded\n", st.Label(i), st.Style, len(samples))
			continue
		}
		size := built.Main.Bounds().Size()
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.2fx%.2fx%.2f\n",
			st.Label(i), st.Style, len(samples),
			built.Main.VertexCount(), built.Main.TriangleCount(),
			size.X, size.Y, size.Z)
	}
	return tw.Flush()
}

func cmdProfile(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: strokectl profile <segments>")
	}
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 3 {
		return fmt.Errorf("segments must be an integer of at least 3, got %q", args[0])
	}
	for i, p := range stroke.Profile(n) {
		fmt.Fprintf(stdout, "%d\t%.6f\t%.6f\t%.6f\n", i, p.X, p.Y, p.Z)
	}
	return nil
}

// cmdConfig writes the config that results from the file and flags, to -o
// or to the user's config directory.
func cmdConfig(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	output := fs.String("o", "", "Output file (default: the user config directory)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = config.DefaultPath()
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintln(stdout, path)
	return nil
}

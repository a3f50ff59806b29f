// strokeview is an interactive window for drawing ribbon, swatch and tube strokes.
//
// Left drag draws, right drag orbits and the wheel zooms. Keys 1, 2 and 3
// pick the ribbon, swatch and tube styles, and K cycles the palette color.
// Z undoes, C clears, X deletes the stroke under the cursor, F frames the
// scene, S saves it as a script and P writes a screenshot.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/strokemesh/internal/config"
	"github.com/Faultbox/strokemesh/internal/logger"
	"github.com/Faultbox/strokemesh/internal/viewer"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	save := flag.String("save", "", "Script path the S key writes to (default: timestamped file)")
	shots := flag.String("screenshots", "screenshots", "Directory the P key writes PNG captures to")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [script.yaml]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.LoggerOptions(os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== StrokeMesh Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg, viewer.Options{Script: flag.Arg(0), SavePath: *save, ScreenshotDir: *shots})
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	runErr := v.Run()
	v.Close()
	if runErr != nil {
		logger.Error("viewer error", zap.Error(runErr))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

package config

import (
	"io"

	"github.com/Faultbox/strokemesh/internal/logger"
)

// LoggerOptions converts the logging section for logger.Init. console may be
// nil to log to the file only.
func (l LoggingConfig) LoggerOptions(console io.Writer) logger.Options {
	opts := logger.Options{Level: l.Level, Console: console}
	if l.LogFile != "" {
		opts.File = logger.FileConfig{
			Path:       l.LogFile,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		}
	}
	return opts
}

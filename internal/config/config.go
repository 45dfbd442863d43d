// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings. Tracing needs
// debug level output as every instruction is logged at that level.
func CreateLogger(flags options.Flags) *log.Logger {
	cfg := log.DefaultConfig()
	if flags.Debug || flags.Trace {
		cfg.Level = log.DebugLevel
	} else if flags.Quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Package logging configures the zap logger shared by the jsu tool and the
// library.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger, writing to logFile when set and stderr otherwise, and
// installs it as the zap global. Stdout is left to command output.
func New(debug bool, logFile string) (*zap.Logger, error) {
	cfg := newConfig(debug)
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newConfig(debug bool) zap.Config {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

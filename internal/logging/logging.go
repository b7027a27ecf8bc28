// Package logging builds the zap logger shared by the store, the grocery
// engine, and the CLI.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// EnvMode selects production logging when set to "production".
const EnvMode = "NUTRIO_ENV"

// New returns a logger at level. Development mode uses the console encoder
// and is the default unless NUTRIO_ENV=production.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if development && os.Getenv(EnvMode) != "production" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", types.LogLevelInfo:
		return zapcore.InfoLevel, nil
	case types.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case types.LogLevelWarn:
		return zapcore.WarnLevel, nil
	case types.LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", level, types.ErrLogLevelUnknown)
	}
}

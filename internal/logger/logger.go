// Package logger builds the zap loggers used by the engine, the decorators and the CLI.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"caster-engine/internal/errors"
)

// Standard field names for consistent structured logging.
const (
	FieldPair        = "pair"
	FieldRuntimePair = "runtime_pair"
	FieldMember      = "member"
	FieldStrategy    = "strategy"
	FieldCount       = "count"
	FieldProfile     = "profile"
	FieldDurationMS  = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "op"
	FieldSourceHash  = "source_hash"
	FieldDestHash    = "destination_hash"
)

// Options selects the output format and level.
type Options struct {
	JSON  bool
	Level string
}

// New builds a logger writing to stderr. JSON output uses the zap production encoder,
// otherwise a console encoder without timestamps is used.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}

		return config.Build()
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)), nil
}

// ParseLevel accepts zap level names; the empty string means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zapcore.InfoLevel, nil
	}

	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "log level %q", name)
	}

	return level, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}

	return l
}

// Package logging builds the zap loggers used across trackedit.
package logging

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/trackedit/internal/config"
)

// New builds a logger writing to stderr with the configured level and
// format. "json" uses zap's production encoder; "console" the development one.
func New(cfg config.LoggingConfig) (*zap.SugaredLogger, error) {
	return newLogger(cfg, zapcore.Lock(os.Stderr))
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func newLogger(cfg config.LoggingConfig, sink zapcore.WriteSyncer) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "logging level %q", cfg.Level)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, errors.Newf("unknown logging format %q", cfg.Format)
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

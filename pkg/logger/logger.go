// Package logger wires the shared ectologger interface to a zap sink. Every
// component in this module takes an ectologger.Logger; this is the one place
// that knows what backs it.
package logger

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
)

// New builds the process-wide logger. Pretty mode uses zap's development
// encoder for local runs; otherwise the production JSON encoder.
func New(appName string, pretty bool) (ectologger.Logger, error) {
	var zl *zap.Logger
	var err error
	if pretty {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	zl = zl.Named(appName)

	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zl.Info("log", zap.Any("entry", msg))
	}), nil
}

// NewNop returns a logger that discards everything. Used by tests and dry
// runs that want the full code path without output.
func NewNop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

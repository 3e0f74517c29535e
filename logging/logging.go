// Package logging builds the zap backed logr.Logger handed to the solvers.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to w that emits records up to V(verbosity).
// Development switches from JSON lines to the console encoder.
func New(w io.Writer, verbosity int, development bool) logr.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	if development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	if development {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	//logr V(n) maps to zap level -n
	level := zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core))
}

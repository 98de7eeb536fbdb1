// Package logging builds the zap logger shared by all commands.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a human-readable console logger writing to w. The default level
// is info; verbose lowers it to debug and quiet raises it to error. Logs never
// go to stdout, which carries the rendered document.
func New(w io.Writer, verbose, quiet bool) *zap.Logger {
	level := zap.InfoLevel
	switch {
	case quiet:
		level = zap.ErrorLevel
	case verbose:
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)

	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(w))}
	if verbose {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}

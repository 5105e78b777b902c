// Package logging builds the zap logger shared by the generator's components.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger flavor.
type Options struct {
	// JSON switches to the production JSON encoder for machine consumption.
	JSON bool
	// Verbose enables debug output such as tolerated type errors.
	Verbose bool
}

// Nop returns a logger that discards everything. Components default to it so
// they never need a nil check.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// New builds a logger writing to stderr; stdout stays free for command output.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		logger, err := config.Build()
		if err != nil {
			return nil, err
		}
		return logger.Sugar().Named("pretune"), nil
	}

	core := zapcore.NewCore(newConsoleEncoder(), zapcore.AddSync(os.Stderr), level)
	return zap.New(core).Sugar().Named("pretune"), nil
}

func newConsoleEncoder() zapcore.Encoder {
	config := zapcore.EncoderConfig{
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
	return zapcore.NewConsoleEncoder(config)
}

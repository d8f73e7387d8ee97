package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

type Options struct {
	Development bool

	// Optional path of a log file; it is rotated by size and kept next to
	// the console output.
	File string
}

func InitProd() *zap.Logger {
	return Init(Options{})
}

func InitDev() *zap.Logger {
	return Init(Options{Development: true})
}

func Init(opts Options) *zap.Logger {
	config := zap.NewProductionConfig()
	if opts.Development {
		config = zap.NewDevelopmentConfig()
	}

	var buildOpts []zap.Option
	buildOpts = append(buildOpts, zap.AddStacktrace(zap.WarnLevel))
	if len(opts.File) > 0 {
		buildOpts = append(buildOpts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, newFileCore(opts.File, config.Level))
		}))
	}

	return initLogger(config, buildOpts...)
}

func newFileCore(path string, level zap.AtomicLevel) zapcore.Core {
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	})
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewCore(encoder, writer, level)
}

func initLogger(config zap.Config, opts ...zap.Option) *zap.Logger {
	var err error
	logger, err = config.Build(opts...)
	if err != nil {
		fmt.Printf("Failed to init zap logger: %v", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	return logger
}

func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

package logger

import (
	"context"

	"go.uber.org/zap"
)

// Init installs the process-wide zap logger. Production context gets the
// JSON production config, anything else the development one.
func Init(production bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if production {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(l)
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}

// The ctx argument carries request-scoped fields; it is part of the call
// surface so call sites don't change when fields are attached.

func Debugf(_ context.Context, format string, args ...interface{}) {
	zap.S().Debugf(format, args...)
}

func Info(_ context.Context, args ...interface{}) {
	zap.S().Info(args...)
}

func Infof(_ context.Context, format string, args ...interface{}) {
	zap.S().Infof(format, args...)
}

func Warnf(_ context.Context, format string, args ...interface{}) {
	zap.S().Warnf(format, args...)
}

func Error(_ context.Context, args ...interface{}) {
	zap.S().Error(args...)
}

func Errorf(_ context.Context, format string, args ...interface{}) {
	zap.S().Errorf(format, args...)
}

func Fatal(_ context.Context, args ...interface{}) {
	zap.S().Fatal(args...)
}

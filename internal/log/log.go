// Package log provides the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

// log backs the package-level helpers and skips their frame; plain is handed
// to packages that call the logger directly.
var log *zap.SugaredLogger
var plain *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	setBase(zapLogger)
	return nil
}

func setBase(l *zap.Logger) {
	baseLogger = l
	plain = l.Sugar()
	log = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func ensure() {
	if log == nil {
		l, _ := zap.NewProduction()
		setBase(l)
	}
}

// GetSugaredLogger returns the sugared logger instance. Packages that take a
// logger as a dependency get theirs from here.
func GetSugaredLogger() *zap.SugaredLogger {
	ensure()
	return plain
}

// Sync flushes any buffered log entries
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func Debugw(msg string, keysAndValues ...interface{}) {
	ensure()
	log.Debugw(msg, keysAndValues...)
}

func Infof(template string, args ...interface{}) {
	ensure()
	log.Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	ensure()
	log.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	ensure()
	log.Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	ensure()
	log.Errorf(template, args...)
}

func Fatalf(template string, args ...interface{}) {
	ensure()
	log.Fatalf(template, args...)
}

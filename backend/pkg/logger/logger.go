package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger; nil until Init runs.
var Logger *zap.Logger

// Init builds the process logger for env ("production" logs JSON at info level,
// anything else logs coloured console output at debug level).
func Init(env string) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := config.Build()
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the process logger
func Get() *zap.Logger {
	if Logger == nil {
		// Fallback to a development logger if not initialized
		fallback, _ := zap.NewDevelopment()
		return fallback
	}
	return Logger
}

// For returns the process logger named after a component.
func For(component string) *zap.Logger {
	return Get().Named(component)
}

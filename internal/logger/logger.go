package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base        = zap.NewNop()
	serviceName = "pricesentinel"
)

// Init builds the global logger. format is "json" (production encoder) or
// "console" (development encoder).
func Init(level, format string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	base = l
	return nil
}

// Set replaces the global logger, mainly for tests.
func Set(l *zap.Logger) { base = l }

// L returns the global logger with the service field attached.
func L() *zap.Logger { return base.With(zap.String("service", serviceName)) }

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName
	return oldName
}

func Debug(format string, args ...interface{}) { L().Debug(fmt.Sprintf(format, args...)) }
func Info(format string, args ...interface{})  { L().Info(fmt.Sprintf(format, args...)) }
func Warn(format string, args ...interface{})  { L().Warn(fmt.Sprintf(format, args...)) }
func Error(format string, args ...interface{}) { L().Error(fmt.Sprintf(format, args...)) }
func Fatal(format string, args ...interface{}) { L().Fatal(fmt.Sprintf(format, args...)) }

// Sync flushes buffered entries.
func Sync() { _ = base.Sync() }

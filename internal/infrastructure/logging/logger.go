// Package logging provides the category based structured logger used across
// the service. Two backends are available, zap and zerolog, and both can
// additionally write to a size-rotated file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rsvshop/rsvshop/internal/infrastructure/configs"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName       = "rsvshop-admin.log"
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 5
	logFileMaxAgeDays = 30
)

type Logger interface {
	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	Sync() error
}

type LoggerConfig struct {
	AppName  string
	FilePath string
	Encoding string
	Level    string
	Logger   string

	// Output defaults to stdout.
	Output io.Writer
}

func NewConfig(appName string, cfg configs.LoggerConfig) *LoggerConfig {
	return &LoggerConfig{
		AppName:  appName,
		FilePath: cfg.FilePath,
		Encoding: cfg.Encoding,
		Level:    cfg.Level,
		Logger:   cfg.Logger,
	}
}

func NewLogger(cfg *LoggerConfig) Logger {
	switch cfg.Logger {
	case "zap", "":
		return newZapLogger(cfg)
	case "zerolog":
		return newZeroLogger(cfg)
	}

	panic("logger not supported: supported loggers: [zap, zerolog]")
}

func (c *LoggerConfig) output() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

// fileWriter returns nil when file logging is disabled.
func (c *LoggerConfig) fileWriter() io.Writer {
	if c.FilePath == "" {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(c.FilePath, logFileName),
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
		LocalTime:  true,
	}
}

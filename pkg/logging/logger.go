// Package logging hands out logrus loggers configured from the application
// config and the environment.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/delaneyj/editorstate/pkg/config"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LevelEnv overrides the configured log level.
const LevelEnv = "EDITORSTATE_LOG_LEVEL"

var (
	loggers   = make(map[string]*logrus.Entry)
	settings  = config.Default().Logging
	loggersMu sync.Mutex
)

// Configure sets the logging config used by loggers created afterwards and
// drops cached loggers so they pick it up.
func Configure(cfg config.LoggingConfig) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	settings = cfg
	clear(loggers)
}

// NewLogger returns the logger for component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv(LevelEnv); env != "" {
		levelStr = env
	} else if settings.Level != "" {
		levelStr = settings.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch settings.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var writers []io.Writer
	if settings.File != "" {
		file, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			writers = append(writers, file)
		} else {
			logrus.Warnf("Failed to open log file %s: %v", settings.File, err)
		}
	}
	if toStderr(settings.Output, level) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// Interactive terminals are owned by the TUI.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func toStderr(output string, level logrus.Level) bool {
	switch output {
	case "stderr":
		return true
	case "discard":
		return false
	}
	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return level >= logrus.DebugLevel || !interactive
}

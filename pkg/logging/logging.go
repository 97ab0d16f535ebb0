// Package logging wires up the process-wide zerolog logger: a styled
// console writer plus an optional size-rotated log file.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger output
type Config struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	ToFile     bool   `toml:"to_file"`     // also write to a rotating file
	Filename   string `toml:"filename"`    // log file path when ToFile is set
	MaxSizeMB  int    `toml:"max_size_mb"` // rotation threshold per file
	MaxBackups int    `toml:"max_backups"` // rotated files to keep
}

// DefaultConfig returns console-only info logging
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Filename:   "logs/kdopt.log",
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// Setup builds a logger from the config. Unrecognized levels fall back to
// info rather than failing; logging config should never stop a run.
func Setup(cfg Config) zerolog.Logger {
	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000",
		},
	}

	if cfg.ToFile {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

package main

import (
	"io"
	"os"

	"github.com/petasbytes/tool-agent/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// initLogger sends logs to stderr so stdout carries only the demo output.
func initLogger(cfg config.LogConfig) error {
	var logWriter io.Writer
	if cfg.Format == "json" {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if cfg.File != "" {
		logWriter = io.MultiWriter(
			logWriter,
			zerolog.ConsoleWriter{
				NoColor: true,
				Out: &lumberjack.Logger{
					Filename:   cfg.File,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28, // days
				},
			})
	}
	log.Logger = log.Output(logWriter)

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.Level)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

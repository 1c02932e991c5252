package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LogConfig contains the configuration of the loggers of a query program.
type LogConfig struct {
	Format string `help:"Format to write log lines in" enum:"text,json" default:"text"`
	Level  string `help:"Lowest log level that will be emitted" enum:"trace,debug,info,warn,error" default:"warn"`
	File   string `help:"File to direct logs to. If left blank, or '-', logs go to stderr" default:"-"`
}

// Resolve returns level, formatter and output described by the config.
// The caller owns the returned output if it is a file.
func (cfg *LogConfig) Resolve() (log.Level, log.Formatter, io.Writer, error) {
	level := log.WarnLevel
	if cfg.Level != "" {
		l, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return 0, nil, nil, errors.WithStack(err)
		}
		level = l
	}

	var formatter log.Formatter
	switch cfg.Format {
	case "", "text":
		formatter = &log.TextFormatter{}
	case "json":
		formatter = &log.JSONFormatter{}
	default:
		return 0, nil, nil, errors.Errorf("log format must be either text or json, not %q", cfg.Format)
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.Create(cfg.File)
		if err != nil {
			return 0, nil, nil, errors.WithStack(err)
		}
		out = f
	}
	return level, formatter, out, nil
}

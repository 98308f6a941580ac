// Package logging configures the logrus logger shared by gpgkeyhash commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Log formats accepted by --log-format.
const (
	TextFormat = "text"
	JSONFormat = "json"
)

// Options select the logger's level, format and output.
type Options struct {
	Level  string
	Format string
	Out    io.Writer
}

// New builds a logger. An empty level means "warn", an empty format "text"
// and a nil Out stderr.
func New(opts Options) (*log.Logger, error) {
	l := log.New()
	l.SetOutput(os.Stderr)
	if opts.Out != nil {
		l.SetOutput(opts.Out)
	}

	lvl := log.WarnLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	l.SetLevel(lvl)

	switch strings.ToLower(opts.Format) {
	case "", TextFormat:
		l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	case JSONFormat:
		l.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format %q (want %s or %s)", opts.Format, TextFormat, JSONFormat)
	}
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

package gpgkeyhash

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gpgkeyhash/gpgkeyhash/internal/config"
	"github.com/gpgkeyhash/gpgkeyhash/internal/logging"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// loadSettings merges --config, the local config in dir and the global
// config. Only an explicit --config that cannot be read is an error.
func loadSettings(dir string) (config.FileConfig, error) {
	var explicit, local, global config.FileConfig
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return config.FileConfig{}, err
		}
		explicit = c
	}
	if dir != "" {
		if c, err := config.LoadLocal(dir); err == nil {
			local = c
		}
	}
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	}
	return config.Merge(explicit, local, global), nil
}

func newLogger(cfg config.FileConfig) (*log.Logger, error) {
	return logging.New(logging.Options{
		Level:  pickString(flagLogLevel, cfg.LogLevel),
		Format: pickString(flagLogFormat, cfg.LogFormat),
	})
}

// colorEnabled reports whether w should receive ANSI colors.
func colorEnabled(w io.Writer, cfg config.FileConfig) bool {
	if pickBool(flagNoColor, cfg.NoColor) {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func copyLines(lg *log.Logger, lines ...string) {
	if !flagCopy || len(lines) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		lg.WithError(err).Warn("could not copy to clipboard")
		return
	}
	lg.WithField("lines", len(lines)).Info("copied to clipboard")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pickString(cli string, file *string) string {
	if cli != "" {
		return cli
	}
	if file != nil {
		return *file
	}
	return ""
}

func pickInt(cli int, file *int) int {
	if cli != 0 {
		return cli
	}
	if file != nil {
		return *file
	}
	return 0
}

func pickInt64(cli int64, file *int64) int64 {
	if cli != 0 {
		return cli
	}
	if file != nil {
		return *file
	}
	return 0
}

func pickBool(cli bool, file *bool) bool {
	if cli {
		return true
	}
	if file != nil {
		return *file
	}
	return false
}

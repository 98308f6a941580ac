package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for gpgkeyhash.
type FileConfig struct {
	Include     *string `yaml:"include,omitempty"`
	Exclude     *string `yaml:"exclude,omitempty"`
	MaxBytes    *int64  `yaml:"max_bytes,omitempty"`
	Threads     *int    `yaml:"threads,omitempty"`
	NoColor     *bool   `yaml:"no_color,omitempty"`
	NoCache     *bool   `yaml:"no_cache,omitempty"`
	Format      *string `yaml:"format,omitempty"`
	FailOnError *bool   `yaml:"fail_on_error,omitempty"`
	LogLevel    *string `yaml:"log_level,omitempty"`
	LogFormat   *string `yaml:"log_format,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given directory.
// It supports .gpgkeyhash.yml/.yaml and gpgkeyhash.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".gpgkeyhash.yml", ".gpgkeyhash.yaml", "gpgkeyhash.yml", "gpgkeyhash.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "gpgkeyhash", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Merge returns the field-wise first non-nil value across layers, highest
// precedence first.
func Merge(layers ...FileConfig) FileConfig {
	var out FileConfig
	for _, l := range layers {
		out.Include = first(out.Include, l.Include)
		out.Exclude = first(out.Exclude, l.Exclude)
		out.MaxBytes = first(out.MaxBytes, l.MaxBytes)
		out.Threads = first(out.Threads, l.Threads)
		out.NoColor = first(out.NoColor, l.NoColor)
		out.NoCache = first(out.NoCache, l.NoCache)
		out.Format = first(out.Format, l.Format)
		out.FailOnError = first(out.FailOnError, l.FailOnError)
		out.LogLevel = first(out.LogLevel, l.LogLevel)
		out.LogFormat = first(out.LogFormat, l.LogFormat)
	}
	return out
}

func first[T any](have, next *T) *T {
	if have != nil {
		return have
	}
	return next
}

// Marshal renders cfg as YAML, omitting unset fields.
func Marshal(cfg FileConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

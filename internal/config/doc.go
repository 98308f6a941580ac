// Package config loads gpgkeyhash configuration from an explicit file, a
// directory-local file and the global XDG file, and merges them by
// precedence. CLI code maps flags on top of the merged result.
package config

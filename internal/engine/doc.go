// Package engine runs key extraction over a directory of gpg-agent key files.
// It walks the target directory, filters files by glob, extracts each one on
// a bounded worker pool and returns per-file results. This package is
// internal; external consumers should use the stable facade in pkg/core.
package engine

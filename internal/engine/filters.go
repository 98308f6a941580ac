package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects gpg-agent key files.
const DefaultInclude = "**/*.key"

// files gpg-agent keeps next to keys that are never key material
var skipFileNames = map[string]bool{
	".gpgkeyhashcache.json":      true,
	".gpgkeyhash_last_scan.json": true,
	".#lk":                       true,
}

func isSkippedFile(rel string) bool {
	base := filepath.Base(rel)
	if skipFileNames[base] {
		return true
	}
	// lock and temp files written while gpg-agent updates a key
	return strings.HasPrefix(base, ".#lk") || strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, "~")
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := filepath.ToSlash(relPath)
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// ValidGlobs reports the first malformed pattern in a comma-separated list.
func ValidGlobs(s string) (string, bool) {
	for _, g := range parseGlobsList(s) {
		if !doublestar.ValidatePattern(g) {
			return g, false
		}
	}
	return "", true
}

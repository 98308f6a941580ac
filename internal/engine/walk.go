package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultRoot returns gpg-agent's key directory: $GNUPGHOME/private-keys-v1.d
// or ~/.gnupg/private-keys-v1.d.
func DefaultRoot() string {
	home := os.Getenv("GNUPGHOME")
	if home == "" {
		if h, _ := os.UserHomeDir(); h != "" {
			home = filepath.Join(h, ".gnupg")
		}
	}
	if home == "" {
		return "."
	}
	return filepath.Join(home, "private-keys-v1.d")
}

// Walk traverses cfg.Root and invokes handle with the relative path of each
// eligible file. Unreadable entries are skipped. Walk stops early when ctx is
// done.
func Walk(ctx context.Context, cfg Config, handle func(rel string, size int64)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if isSkippedFile(rel) || !allowedByGlobs(rel, cfg) {
			return nil
		}
		info, _ := d.Info()
		var size int64
		if info != nil {
			size = info.Size()
		}
		if cfg.MaxBytes > 0 && size > cfg.MaxBytes {
			return nil
		}
		handle(rel, size)
		return nil
	})
}

// CountTargets returns the number of files Scan would process.
func CountTargets(cfg Config) (int, error) {
	n := 0
	err := Walk(context.Background(), cfg, func(string, int64) { n++ })
	return n, err
}

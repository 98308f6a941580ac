package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
)

const fileName = ".gpgkeyhashcache.json"

// DB maps a path relative to the scanned directory to the result computed
// for the content with the recorded digest.
type DB struct {
	Entries map[string]types.Result `json:"entries"`
}

// Digest returns the hex xxhash64 of data.
func Digest(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Lookup returns the cached result for path if its digest still matches.
func (db DB) Lookup(path, digest string) (types.Result, bool) {
	r, ok := db.Entries[path]
	if !ok || r.Digest != digest {
		return types.Result{}, false
	}
	r.Cached = true
	return r, true
}

// Put records r under path. Results without a digest are ignored.
func (db DB) Put(path string, r types.Result) {
	if r.Digest == "" {
		return
	}
	r.Cached = false
	db.Entries[path] = r
}

func defaultPath(root string) string {
	return filepath.Join(root, fileName)
}

func Load(root string) (DB, error) {
	var db DB
	f, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Entries: map[string]types.Result{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]types.Result{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]types.Result{}
	}
	return db, nil
}

// Save writes the cache owner-only; it holds hash lines.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(defaultPath(root), b, 0600)
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gpgkeyhash/gpgkeyhash/internal/cache"
	"github.com/gpgkeyhash/gpgkeyhash/internal/hashline"
	"github.com/gpgkeyhash/gpgkeyhash/internal/keyfile"
	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
	log "github.com/sirupsen/logrus"
)

// Config controls which files are scanned and how.
type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	MaxBytes     int64
	Threads      int
	NoCache      bool
	Logger       *log.Logger
	Progress     func()
}

// Result contains per-file results and basic scan statistics.
type Result struct {
	Results      []types.Result
	FilesScanned int
	Extracted    int
	Skipped      int
	Failed       int
	CacheHits    int
	Duration     time.Duration
}

// Failures returns the results with StatusFailed.
func (r Result) Failures() []types.Result {
	var out []types.Result
	for _, res := range r.Results {
		if res.Status == types.StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Lines returns the hash lines of successful results in path order.
func (r Result) Lines() []string {
	var out []string
	for _, res := range r.Results {
		if res.Status == types.StatusOK {
			out = append(out, res.Line)
		}
	}
	return out
}

func determineWorkers(threads int) int {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > 32 {
		threads = 32
	}
	return threads
}

// ExtractBytes extracts one key file's content into a Result. Files without
// an OCB protected block are reported as skipped, not failed.
func ExtractBytes(path string, data []byte) types.Result {
	return extractBytes(nil, path, data)
}

func extractBytes(entry *log.Entry, path string, data []byte) types.Result {
	res := types.Result{Path: path, Digest: cache.Digest(data)}
	rec, err := traceExtract(entry, data)
	if err != nil {
		res.Error = err.Error()
		res.Kind = keyfile.KindOf(err).String()
		res.Status = types.StatusFailed
		if errors.Is(err, keyfile.ErrNotFound) {
			res.Status = types.StatusSkipped
		}
		return res
	}
	res.Status = types.StatusOK
	res.Line = hashline.Format(rec)
	if _, err := hashline.Parse(res.Line); err != nil {
		res.Warning = "hashcat -m 17050 will reject this line: " + err.Error()
	}
	return res
}

// ExtractFile reads path and returns its hash line. A non-nil lg receives
// debug logs of each extraction stage.
func ExtractFile(path string, lg *log.Logger) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var entry *log.Entry
	if lg != nil {
		entry = lg.WithField("path", path)
	}
	rec, err := traceExtract(entry, data)
	if err != nil {
		return "", err
	}
	return hashline.Format(rec), nil
}

// traceExtract runs keyfile's stages one by one, logging the located block
// and the literal forms and lengths. Literal bytes are never logged.
func traceExtract(entry *log.Entry, data []byte) (keyfile.Record, error) {
	if entry == nil || !entry.Logger.IsLevelEnabled(log.DebugLevel) {
		return keyfile.Extract(data)
	}
	span, err := keyfile.Locate(data)
	if err != nil {
		entry.WithField("stage", "locate").Debug(err.Error())
		return keyfile.Record{}, err
	}
	entry.WithFields(log.Fields{"start": span.Start, "end": span.End}).Debug("located protected block")
	flat := keyfile.Normalize(span.Bytes(data))
	entry.WithFields(log.Fields{"raw": span.Len(), "normalized": len(flat)}).Debug("normalized block")
	rec, err := keyfile.Scan(flat)
	if err != nil {
		entry.WithField("stage", keyfileStage(err)).Debug(err.Error())
		return rec, err
	}
	entry.WithFields(log.Fields{
		"salt_form":       rec.SaltForm.String(),
		"salt_len":        len(rec.Salt),
		"iterations":      rec.Iterations,
		"nonce_form":      rec.NonceForm.String(),
		"nonce_len":       len(rec.Nonce),
		"ciphertext_form": rec.CiphertextForm.String(),
		"ciphertext_len":  len(rec.Ciphertext),
	}).Debug("scanned fields")
	return rec, nil
}

func keyfileStage(err error) string {
	var e *keyfile.Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// Scan extracts every eligible file under cfg.Root.
func Scan(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	lg := cfg.Logger
	if lg == nil {
		lg = log.StandardLogger()
	}
	if st, err := os.Stat(cfg.Root); err != nil {
		return result, fmt.Errorf("scan root: %w", err)
	} else if !st.IsDir() {
		return result, fmt.Errorf("scan root %s is not a directory", cfg.Root)
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	} else {
		db.Entries = map[string]types.Result{}
	}

	started := time.Now()
	paths := make(chan string)
	var (
		mu  sync.Mutex
		out []types.Result
		wg  sync.WaitGroup
	)
	workers := determineWorkers(cfg.Threads)
	lg.WithFields(log.Fields{"root": cfg.Root, "workers": workers}).Debug("scanning key directory")

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range paths {
				res := scanOne(cfg, db, rel, lg)
				mu.Lock()
				out = append(out, res)
				if cfg.Progress != nil {
					cfg.Progress()
				}
				mu.Unlock()
			}
		}()
	}

	walkErr := Walk(ctx, cfg, func(rel string, _ int64) {
		select {
		case paths <- rel:
		case <-ctx.Done():
		}
	})
	close(paths)
	wg.Wait()
	if walkErr != nil {
		return result, walkErr
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	for _, r := range out {
		result.FilesScanned++
		switch r.Status {
		case types.StatusOK:
			result.Extracted++
		case types.StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		if r.Cached {
			result.CacheHits++
		}
		if !cfg.NoCache && r.Status != types.StatusFailed {
			db.Put(r.Path, r)
		}
	}
	result.Results = out
	result.Duration = time.Since(started)
	if !cfg.NoCache && len(db.Entries) > 0 {
		if err := cache.Save(cfg.Root, db); err != nil {
			lg.WithError(err).Warn("could not write cache")
		}
	}
	return result, nil
}

// scanOne runs on worker goroutines; db is only read here.
func scanOne(cfg Config, db cache.DB, rel string, lg *log.Logger) types.Result {
	entry := lg.WithField("path", rel)
	data, err := os.ReadFile(filepath.Join(cfg.Root, rel))
	if err != nil {
		entry.WithError(err).Warn("cannot read key file")
		return types.Result{Path: rel, Status: types.StatusFailed, Error: err.Error()}
	}
	if !cfg.NoCache {
		if r, ok := db.Lookup(rel, cache.Digest(data)); ok {
			entry.Debug("cache hit")
			return r
		}
	}
	res := extractBytes(entry, rel, data)
	switch res.Status {
	case types.StatusOK:
		entry.Debug("extracted hash line")
		if res.Warning != "" {
			entry.Warn(res.Warning)
		}
	case types.StatusSkipped:
		entry.Debug("no OCB protected block")
	default:
		entry.WithField("kind", res.Kind).Info(res.Error)
	}
	return res
}

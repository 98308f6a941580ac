package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
)

// ScanResults stores the results and metadata from a scan
type ScanResults struct {
	Results   []types.Result `json:"results"`
	Timestamp time.Time      `json:"timestamp"`
	Root      string         `json:"root"`
	Count     int            `json:"count"`
}

func resultsPath(root string) string {
	return filepath.Join(root, ".gpgkeyhash_last_scan.json")
}

// SaveResults saves scan results next to the cache
func SaveResults(root string, results []types.Result) error {
	out := ScanResults{
		Results:   results,
		Timestamp: time.Now(),
		Root:      root,
		Count:     len(results),
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(root), b, 0600)
}

// LoadResults loads the last scan results
func LoadResults(root string) (ScanResults, error) {
	var results ScanResults
	f, err := os.ReadFile(resultsPath(root))
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(f, &results); err != nil {
		return results, err
	}
	return results, nil
}

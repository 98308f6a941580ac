// Package audit keeps an append-only JSONL history of directory scans.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
)

const fileName = ".gpgkeyhash_audit.jsonl"

// ScanRecord summarizes one scan. Hash lines are never stored.
type ScanRecord struct {
	Timestamp    time.Time        `json:"timestamp"`
	ScanID       string           `json:"scan_id"`
	Root         string           `json:"root"`
	FilesScanned int              `json:"files_scanned"`
	Extracted    int              `json:"extracted"`
	Skipped      int              `json:"skipped"`
	Failed       int              `json:"failed"`
	CacheHits    int              `json:"cache_hits"`
	Duration     string           `json:"duration"`
	Failures     []FailureSummary `json:"failures,omitempty"`
}

// FailureSummary identifies a key file that could not be extracted.
type FailureSummary struct {
	Path  string `json:"path"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(root string) *AuditLog {
	return &AuditLog{logPath: filepath.Join(root, fileName)}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns the recorded scans, newest first.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", record.Timestamp.UnixNano())
	}
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index, counted newest first.
func (a *AuditLog) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to rewrite audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for i := len(records) - 1; i >= 0; i-- {
		if err := encoder.Encode(records[i]); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}

// CreateScanRecord builds a record from per-file results.
func CreateScanRecord(root string, results []types.Result, cacheHits int, duration time.Duration) ScanRecord {
	rec := ScanRecord{
		Timestamp: time.Now(),
		Root:      root,
		CacheHits: cacheHits,
		Duration:  duration.String(),
	}
	for _, r := range results {
		rec.FilesScanned++
		switch r.Status {
		case types.StatusOK:
			rec.Extracted++
		case types.StatusSkipped:
			rec.Skipped++
		default:
			rec.Failed++
			rec.Failures = append(rec.Failures, FailureSummary{Path: r.Path, Kind: r.Kind, Error: r.Error})
		}
	}
	return rec
}

package report

import (
	"encoding/json"
	"io"

	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
)

// WriteJSON writes results as an indented JSON array; never `null`.
func WriteJSON(w io.Writer, results []types.Result) error {
	if results == nil {
		results = []types.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// ShouldFail reports whether a scan should exit nonzero: when nothing was
// extracted, or when failOnError is set and any file failed.
func ShouldFail(results []types.Result, failOnError bool) bool {
	ok, _, failed := Counts(results)
	if ok == 0 {
		return true
	}
	return failOnError && failed > 0
}

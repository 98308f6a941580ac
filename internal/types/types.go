package types

// Status is the outcome of extracting one key file.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result describes the extraction outcome for a single key file. Line is
// set on success; Error and Kind describe a failure. Warning flags lines the
// consumer will reject even though extraction succeeded.
type Result struct {
	Path    string `json:"path"`
	Status  Status `json:"status"`
	Line    string `json:"line,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
	Digest  string `json:"digest,omitempty"` // xxhash64 of the file content
	Cached  bool   `json:"cached,omitempty"`
}

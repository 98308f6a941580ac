package core

import (
	"context"

	"github.com/gpgkeyhash/gpgkeyhash/internal/engine"
	"github.com/gpgkeyhash/gpgkeyhash/internal/hashline"
	"github.com/gpgkeyhash/gpgkeyhash/internal/hcctx"
	"github.com/gpgkeyhash/gpgkeyhash/internal/keyfile"
	"github.com/gpgkeyhash/gpgkeyhash/internal/saltrec"
	"github.com/gpgkeyhash/gpgkeyhash/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type (
	Record    = keyfile.Record
	Error     = keyfile.Error
	Kind      = keyfile.Kind
	Line      = hashline.Line
	Config    = engine.Config
	ScanStats = engine.Result
	Result    = types.Result

	// BridgeContext is the saved state of a hashcat bridge plugin session;
	// its RunBatch method dispatches a HashFunc over a password batch.
	BridgeContext = hcctx.Context
	HashFunc      = hcctx.HashFunc
	SaltRecord    = saltrec.Record
)

// InvalidPassword is the batch result for a password whose callback failed.
const InvalidPassword = hcctx.InvalidPassword

// Error kinds and sentinels for errors.Is.
const (
	KindNotFound           = keyfile.KindNotFound
	KindMalformedDelimiter = keyfile.KindMalformedDelimiter
	KindInvalidLiteral     = keyfile.KindInvalidLiteral
	KindLengthViolation    = keyfile.KindLengthViolation
)

var (
	ErrNotFound           = keyfile.ErrNotFound
	ErrMalformedDelimiter = keyfile.ErrMalformedDelimiter
	ErrInvalidLiteral     = keyfile.ErrInvalidLiteral
	ErrLengthViolation    = keyfile.ErrLengthViolation
	ErrRejected           = hashline.ErrRejected
)

// Extract parses the content of a private-keys-v1.d file.
func Extract(data []byte) (Record, error) { return keyfile.Extract(data) }

// Format renders rec as a hashcat mode 17050 line.
func Format(rec Record) string { return hashline.Format(rec) }

// ExtractFile reads path and returns its hash line.
func ExtractFile(path string) (string, error) { return engine.ExtractFile(path, nil) }

// Check validates a hash line the way hashcat's mode 17050 parser does.
func Check(line string) (Line, error) { return hashline.Parse(line) }

// ScanDir extracts every key file under cfg.Root.
func ScanDir(ctx context.Context, cfg Config) (ScanStats, error) {
	return engine.Scan(ctx, cfg)
}

// DefaultRoot returns gpg-agent's key directory.
func DefaultRoot() string { return engine.DefaultRoot() }

// LoadContext reads a bridge context saved with StoreContext. An empty path
// yields the default unsalted context.
func LoadContext(path string) (BridgeContext, error) { return hcctx.LoadOrDefault(path) }

// StoreContext saves c to path, readable by the owner only.
func StoreContext(path string, c BridgeContext) error { return hcctx.Store(path, c) }

// RunBatch hashes passwords against salt record saltID of c with fn.
func RunBatch(ctx context.Context, c BridgeContext, passwords [][]byte, saltID int, selfTest bool, fn HashFunc) ([]string, error) {
	return c.RunBatch(ctx, passwords, saltID, selfTest, fn)
}

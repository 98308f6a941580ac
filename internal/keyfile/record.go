package keyfile

import (
	"strconv"
)

// Size constraints of the extracted fields.
const (
	NonceSize        = 12
	MinCiphertextLen = 16
)

// Record holds the parameters of one protected key. The *Form fields record
// how each literal was written in the key file.
type Record struct {
	Salt       []byte
	Iterations uint64
	Nonce      []byte
	Ciphertext []byte

	SaltForm       LiteralForm
	NonceForm      LiteralForm
	CiphertextForm LiteralForm
}

// Extract locates the protected block in data and scans its fields.
func Extract(data []byte) (Record, error) {
	span, err := Locate(data)
	if err != nil {
		return Record{}, err
	}
	return Scan(Normalize(span.Bytes(data)))
}

// Scan reads salt, iteration count, nonce and ciphertext from a normalized
// protected block. Every violation aborts the scan; no partial record is
// returned.
func Scan(flat []byte) (Record, error) {
	var rec Record
	c := NewCursor(flat)

	if !c.SkipPast(AlgorithmTag) {
		return rec, newError(KindNotFound, "locate", -1, "algorithm tag %s not found in block", AlgorithmTag)
	}
	if !c.SkipPast(HashMarker) {
		return rec, newError(KindNotFound, "hash block", c.Pos(), "%s sub-block not found", HashMarker)
	}

	c.SkipSpace()
	salt, saltLit, err := c.ReadBytes("salt")
	if err != nil {
		return rec, err
	}
	if len(salt) != 8 && len(salt) != 16 {
		return rec, newError(KindLengthViolation, "salt", -1, "invalid salt length %d, want 8 or 16", len(salt))
	}

	c.SkipSpace()
	iters, err := readIterations(c)
	if err != nil {
		return rec, err
	}

	if !c.SkipPast([]byte{')'}) {
		return rec, newError(KindMalformedDelimiter, "hash block", c.Pos(), "unterminated %s sub-block", HashMarker)
	}

	c.SkipSpace()
	nonce, nonceLit, err := c.ReadBytes("nonce")
	if err != nil {
		return rec, err
	}
	if len(nonce) != NonceSize {
		return rec, newError(KindLengthViolation, "nonce", -1, "invalid nonce length %d, want %d", len(nonce), NonceSize)
	}

	// some writers close an inner group before the ciphertext
	c.SkipSpace()
	c.SkipIf(')')
	c.SkipSpace()

	ct, ctLit, err := c.ReadBytes("ciphertext")
	if err != nil {
		return rec, err
	}
	if len(ct) < MinCiphertextLen {
		return rec, newError(KindLengthViolation, "ciphertext", -1, "ciphertext too short: %d bytes, want at least %d", len(ct), MinCiphertextLen)
	}

	rec.Salt = salt
	rec.Iterations = iters
	rec.Nonce = nonce
	rec.Ciphertext = ct
	rec.SaltForm = saltLit.Form
	rec.NonceForm = nonceLit.Form
	rec.CiphertextForm = ctLit.Form
	return rec, nil
}

func readIterations(c *Cursor) (uint64, error) {
	start := c.Pos()
	var text []byte
	if next, ok := c.Peek(); ok && next == '"' {
		lit, err := c.ReadLiteral("iterations")
		if err != nil {
			return 0, err
		}
		text = lit.Raw
	} else {
		text = c.readToken()
	}
	if len(text) == 0 {
		return 0, newError(KindInvalidLiteral, "iterations", start, "invalid iteration count: empty")
	}
	for _, b := range text {
		if b < '0' || b > '9' {
			return 0, newError(KindInvalidLiteral, "iterations", start, "invalid iteration count %q", text)
		}
	}
	n, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return 0, newError(KindInvalidLiteral, "iterations", start, "invalid iteration count %q: out of range", text)
	}
	return n, nil
}

package hashline

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrRejected is matched by every *Error via errors.Is.
var ErrRejected = errors.New("hash line rejected")

// Error reports the first field the consumer would reject.
type Error struct {
	Field int
	Name  string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("field %d (%s): %s", e.Field, e.Name, e.Msg)
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool { return target == ErrRejected }

// Line is a parsed hash line.
type Line struct {
	CiphertextLen int
	ModulusSize   int
	Ciphertext    []byte
	CipherMode    int
	Nonce         []byte
	Iterations    uint64
	Salt          []byte
}

type rule struct {
	name   string
	min    int
	max    int
	digits bool
	hex    bool
}

// token rules of the consumer's tokenizer, by position
var rules = [FieldCount]rule{
	{name: "signature", min: 5, max: 5},
	{name: "version", min: 1, max: 1, digits: true},
	{name: "ciphertext length", min: 2, max: 4, digits: true},
	{name: "modulus size", min: 2, max: 4, digits: true},
	{name: "ciphertext", min: 50, max: 3072, hex: true},
	{name: "s2k usage", min: 1, max: 1, digits: true},
	{name: "s2k mode", min: 3, max: 3, digits: true},
	{name: "s2k hash", min: 1, max: 1, digits: true},
	{name: "cipher", min: 1, max: 1, digits: true},
	{name: "nonce length", min: 2, max: 2, digits: true},
	{name: "nonce", min: 20, max: 40, hex: true},
	{name: "iterations", min: 1, max: 9, digits: true},
	{name: "salt", min: 16, max: 16, hex: true},
}

// Parse validates line the way the consuming tool does and returns its
// fields. Lines carrying a 16-byte salt or a ciphertext shorter than 25 bytes
// are valid extractor output but are rejected here.
func Parse(line string) (Line, error) {
	var out Line
	line = strings.TrimRight(line, "\r\n")
	tok := strings.Split(line, Separator)
	if len(tok) != FieldCount {
		return out, &Error{Field: len(tok) - 1, Name: "line", Msg: fmt.Sprintf("got %d fields, want %d", len(tok), FieldCount)}
	}
	for i, r := range rules {
		if err := r.check(i, tok[i]); err != nil {
			return out, err
		}
	}
	if tok[0] != Signature {
		return out, &Error{Field: 0, Name: rules[0].name, Msg: fmt.Sprintf("want %s", Signature)}
	}

	out.CiphertextLen = atoi(tok[2])
	out.ModulusSize = atoi(tok[3])
	out.Ciphertext, _ = hex.DecodeString(tok[4])
	if out.CiphertextLen != len(out.Ciphertext) {
		return out, &Error{Field: 2, Name: rules[2].name, Msg: fmt.Sprintf("declared %d, ciphertext has %d bytes", out.CiphertextLen, len(out.Ciphertext))}
	}
	for _, f := range [...]struct{ i, want int }{{5, S2KUsage}, {6, S2KMode}, {7, S2KHash}} {
		if atoi(tok[f.i]) != f.want {
			return out, &Error{Field: f.i, Name: rules[f.i].name, Msg: fmt.Sprintf("want %d", f.want)}
		}
	}
	out.CipherMode = atoi(tok[8])
	if out.CipherMode != CipherMode {
		return out, &Error{Field: 8, Name: rules[8].name, Msg: fmt.Sprintf("unsupported cipher %d", out.CipherMode)}
	}
	if atoi(tok[9]) != 12 {
		return out, &Error{Field: 9, Name: rules[9].name, Msg: "want 12"}
	}
	out.Nonce, _ = hex.DecodeString(tok[10])
	if len(out.Nonce) != 12 {
		return out, &Error{Field: 10, Name: rules[10].name, Msg: fmt.Sprintf("got %d bytes, want 12", len(out.Nonce))}
	}
	out.Iterations, _ = strconv.ParseUint(tok[11], 10, 64)
	out.Salt, _ = hex.DecodeString(tok[12])
	return out, nil
}

func (r rule) check(i int, s string) error {
	if len(s) < r.min || len(s) > r.max {
		if r.min == r.max {
			return &Error{Field: i, Name: r.name, Msg: fmt.Sprintf("length %d, want %d", len(s), r.min)}
		}
		return &Error{Field: i, Name: r.name, Msg: fmt.Sprintf("length %d, want %d-%d", len(s), r.min, r.max)}
	}
	for j := 0; j < len(s); j++ {
		c := s[j]
		switch {
		case r.digits && (c < '0' || c > '9'):
			return &Error{Field: i, Name: r.name, Msg: "not a decimal number"}
		case r.hex && !isHex(c):
			return &Error{Field: i, Name: r.name, Msg: "not hexadecimal"}
		}
	}
	if r.hex && len(s)%2 != 0 {
		return &Error{Field: i, Name: r.name, Msg: "odd hex length"}
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

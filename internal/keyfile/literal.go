package keyfile

import "encoding/hex"

// LiteralForm is the surface encoding of a literal.
type LiteralForm uint8

const (
	// FormQuoted is a raw byte string between double quotes.
	FormQuoted LiteralForm = iota + 1
	// FormHex is hexadecimal text between '#' delimiters.
	FormHex
)

func (f LiteralForm) String() string {
	switch f {
	case FormQuoted:
		return "quoted"
	case FormHex:
		return "hex"
	}
	return "unknown"
}

// Literal is a scanned literal before decoding. Raw holds the payload between
// the delimiters and Span its position in the scanned buffer.
type Literal struct {
	Form LiteralForm
	Raw  []byte
	Span Span
}

// Decode returns the literal's bytes. Quoted payloads are returned verbatim;
// hex payloads have all whitespace removed before decoding.
func (l Literal) Decode() ([]byte, error) {
	switch l.Form {
	case FormQuoted:
		out := make([]byte, len(l.Raw))
		copy(out, l.Raw)
		return out, nil
	case FormHex:
		compact := make([]byte, 0, len(l.Raw))
		for _, c := range l.Raw {
			if isSpace(c) || c == '\v' || c == '\f' {
				continue
			}
			compact = append(compact, c)
		}
		out := make([]byte, hex.DecodedLen(len(compact)))
		if _, err := hex.Decode(out, compact); err != nil {
			return nil, newError(KindInvalidLiteral, "", l.Span.Start, "invalid hex: %v", err)
		}
		return out, nil
	}
	return nil, newError(KindInvalidLiteral, "", l.Span.Start, "unknown literal form")
}

package keyfile

import "bytes"

// Span identifies a half-open byte range [Start, End) within a buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Bytes returns the bytes of buf covered by the span. It returns nil if the
// span does not fit in buf.
func (s Span) Bytes(buf []byte) []byte {
	if s.Start < 0 || s.End < s.Start || s.End > len(buf) {
		return nil
	}
	return buf[s.Start:s.End]
}

var (
	// ProtectedMarker opens every candidate block.
	ProtectedMarker = []byte("(protected")
	// AlgorithmTag selects the S2K3 + OCB-AES protection scheme.
	AlgorithmTag = []byte("openpgp-s2k3-ocb-aes")
	// HashMarker opens the S2K hash sub-block holding salt and iterations.
	HashMarker = []byte("(sha1")
)

// Locate returns the first (protected ...) block in data that mentions both
// AlgorithmTag and HashMarker. The marker search resumes after each rejected
// candidate, so the scan is linear in len(data).
func Locate(data []byte) (Span, error) {
	from := 0
	for from < len(data) {
		i := bytes.Index(data[from:], ProtectedMarker)
		if i < 0 {
			break
		}
		start := from + i
		end, ok := balancedEnd(data, start)
		if !ok {
			return Span{}, newError(KindMalformedDelimiter, "locate", start, "unbalanced delimiter")
		}
		block := data[start:end]
		if bytes.Contains(block, AlgorithmTag) && bytes.Contains(block, HashMarker) {
			return Span{Start: start, End: end}, nil
		}
		from = end
	}
	return Span{}, newError(KindNotFound, "locate", -1, "pattern not found: no (protected %s ...) block with %s)", AlgorithmTag, HashMarker)
}

// balancedEnd returns the index just past the parenthesis that brings the
// depth counted from start back to zero.
func balancedEnd(data []byte, start int) (int, bool) {
	depth := 0
	for i := start; i < len(data); i++ {
		switch data[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

package keyfile

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// Normalize returns a copy of b in which every run of ASCII whitespace
// (space, tab, CR, LF) is replaced by one space. Literal payloads are not
// special-cased.
func Normalize(b []byte) []byte {
	out := make([]byte, 0, len(b))
	inSpace := false
	for _, c := range b {
		if isSpace(c) {
			if !inSpace {
				out = append(out, ' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		out = append(out, c)
	}
	return out
}

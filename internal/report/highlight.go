package report

import (
	"io"
	"strconv"

	"github.com/alecthomas/chroma/v2/quick"
)

// MaskLiterals hides the payload of every quoted and hex literal in block,
// keeping the delimiters and the payload size.
func MaskLiterals(block []byte) []byte {
	out := make([]byte, 0, len(block))
	for i := 0; i < len(block); i++ {
		c := block[i]
		if c != '"' && c != '#' {
			out = append(out, c)
			continue
		}
		j := i + 1
		for j < len(block) && block[j] != c {
			if c == '"' && block[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(block) {
			// unterminated: keep the rest as-is
			return append(out, block[i:]...)
		}
		out = append(out, c)
		out = append(out, []byte(maskedSize(j-i-1))...)
		out = append(out, c)
		i = j
	}
	return out
}

func maskedSize(n int) string {
	return "<" + strconv.Itoa(n) + " chars>"
}

// Highlight writes block with S-expression syntax highlighting. With noColor
// set the block is written unchanged.
func Highlight(w io.Writer, block []byte, noColor bool) error {
	if noColor {
		_, err := w.Write(block)
		return err
	}
	return quick.Highlight(w, string(block), "scheme", "terminal256", "monokai")
}

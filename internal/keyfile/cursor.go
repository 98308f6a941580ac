package keyfile

import "bytes"

// Cursor is a forward-only read position over a normalized buffer.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool { return c.pos >= len(c.buf) }

// Peek returns the byte under the cursor.
func (c *Cursor) Peek() (byte, bool) {
	if c.EOF() {
		return 0, false
	}
	return c.buf[c.pos], true
}

// SkipSpace advances over whitespace.
func (c *Cursor) SkipSpace() {
	for c.pos < len(c.buf) && isSpace(c.buf[c.pos]) {
		c.pos++
	}
}

// SkipPast moves to the next occurrence of token at or after the cursor and
// then past it. It returns false and leaves the cursor alone if token does
// not occur.
func (c *Cursor) SkipPast(token []byte) bool {
	if c.EOF() {
		return false
	}
	i := bytes.Index(c.buf[c.pos:], token)
	if i < 0 {
		return false
	}
	c.pos += i + len(token)
	return true
}

// SkipIf consumes b if it is the next byte.
func (c *Cursor) SkipIf(b byte) bool {
	if next, ok := c.Peek(); ok && next == b {
		c.pos++
		return true
	}
	return false
}

// ReadLiteral reads a quoted or hex literal at the cursor. Any other leading
// byte is an unexpected token.
func (c *Cursor) ReadLiteral(stage string) (Literal, error) {
	next, ok := c.Peek()
	if !ok {
		return Literal{}, newError(KindInvalidLiteral, stage, c.pos, "unexpected token: end of input")
	}
	switch next {
	case '"':
		return c.readQuoted(stage)
	case '#':
		return c.readHex(stage)
	}
	return Literal{}, newError(KindInvalidLiteral, stage, c.pos, "unexpected token %q", next)
}

// ReadBytes reads a literal and decodes it.
func (c *Cursor) ReadBytes(stage string) ([]byte, Literal, error) {
	lit, err := c.ReadLiteral(stage)
	if err != nil {
		return nil, lit, err
	}
	b, err := lit.Decode()
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Stage = stage
		}
		return nil, lit, err
	}
	return b, lit, nil
}

// readQuoted scans to the next '"' not preceded by a backslash escape. The
// payload is kept as written.
func (c *Cursor) readQuoted(stage string) (Literal, error) {
	open := c.pos
	for i := open + 1; i < len(c.buf); i++ {
		switch c.buf[i] {
		case '\\':
			i++
		case '"':
			c.pos = i + 1
			return Literal{Form: FormQuoted, Raw: c.buf[open+1 : i], Span: Span{Start: open + 1, End: i}}, nil
		}
	}
	return Literal{}, newError(KindMalformedDelimiter, stage, open, "unterminated quoted string")
}

func (c *Cursor) readHex(stage string) (Literal, error) {
	open := c.pos
	i := bytes.IndexByte(c.buf[open+1:], '#')
	if i < 0 {
		return Literal{}, newError(KindMalformedDelimiter, stage, open, "unterminated hex block")
	}
	end := open + 1 + i
	c.pos = end + 1
	return Literal{Form: FormHex, Raw: c.buf[open+1 : end], Span: Span{Start: open + 1, End: end}}, nil
}

// readToken returns the bytes up to the next ')' or space.
func (c *Cursor) readToken() []byte {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != ')' && c.buf[c.pos] != ' ' {
		c.pos++
	}
	return c.buf[start:c.pos]
}

package ruby

// cursor walks one line of input. The byte at any position past the end of
// the line reads as 0, which lets boundary predicates treat end-of-line
// like any other token boundary.
type cursor struct {
	line []byte
	pos  int
}

func newCursor(line []byte) *cursor {
	return &cursor{line: line}
}

// peek returns the byte at the cursor, 0 at end of line.
func (c *cursor) peek() byte {
	return c.peekAt(0)
}

// peekAt returns the byte off positions past the cursor, 0 past the end.
func (c *cursor) peekAt(off int) byte {
	if c.pos+off >= len(c.line) {
		return 0
	}
	return c.line[c.pos+off]
}

func (c *cursor) advance() {
	c.pos++
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.line)
}

// match advances past literal when it appears at the cursor and the byte
// after it satisfies boundary. The cursor does not move on a failed match.
func (c *cursor) match(literal string, boundary func(byte) bool) bool {
	if len(c.line)-c.pos < len(literal) {
		return false
	}
	if string(c.line[c.pos:c.pos+len(literal)]) != literal {
		return false
	}
	if !boundary(c.peekAt(len(literal))) {
		return false
	}
	c.pos += len(literal)
	return true
}

// matchKeyword matches literal as a whole word: the byte after it must not
// be an identifier character.
func (c *cursor) matchKeyword(literal string) bool {
	return c.match(literal, notIdentChar)
}

// matchKeywordAssign extends matchKeyword to accept the keyword on the
// right-hand side of an assignment, since block assignment is a common
// Ruby idiom ("result = if cond ... end"). On failure the cursor is left
// where it started.
func (c *cursor) matchKeywordAssign(literal string) bool {
	if c.matchKeyword(literal) {
		return true
	}
	start := c.pos

	c.advanceWhile(isSigilChar)
	if !c.advanceWhile(isIdentChar) {
		c.pos = start
		return false
	}
	c.advanceWhile(isSpaceChar)
	if !c.advanceWhile(isOperatorChar) || c.line[c.pos-1] != '=' {
		c.pos = start
		return false
	}
	c.advanceWhile(isSpaceChar)
	if c.matchKeyword(literal) {
		return true
	}

	c.pos = start
	return false
}

// advanceWhile moves the cursor while pred holds, stopping at end of
// line. Reports whether it moved at all.
func (c *cursor) advanceWhile(pred func(byte) bool) bool {
	start := c.pos
	for c.pos < len(c.line) && pred(c.line[c.pos]) {
		c.pos++
	}
	return c.pos != start
}

// skipSpace advances the cursor over whitespace.
func (c *cursor) skipSpace() {
	c.advanceWhile(isSpaceChar)
}

func isIdentChar(ch byte) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9')
}

func notIdentChar(ch byte) bool {
	return !isIdentChar(ch)
}

func isOperatorChar(ch byte) bool {
	switch ch {
	case '[', ']', '=', '!', '~', '+', '-', '@', '*', '/', '%', '<', '>', '&', '^', '|':
		return true
	}
	return false
}

func notOperatorChar(ch byte) bool {
	return !isOperatorChar(ch)
}

func isSigilChar(ch byte) bool {
	return ch == '@' || ch == '$'
}

func isSpaceChar(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// isWhitespace additionally accepts end of line; it is the boundary
// predicate for matches that may end the line.
func isWhitespace(ch byte) bool {
	return ch == 0 || isSpaceChar(ch)
}

func isUpper(ch byte) bool {
	return 'A' <= ch && ch <= 'Z'
}

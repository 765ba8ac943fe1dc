package ruby

import "strings"

// scopeSeparator joins scope chunks and replaces "::" inside qualified
// names.
const scopeSeparator = '.'

// operatorMethods are the redefinable operators, matched against "def"
// names before ordinary identifier parsing. The boundary check keeps "<"
// from shadowing "<=>" and friends.
var operatorMethods = []string{
	"[]", "[]=",
	"**",
	"!", "~", "+@", "-@",
	"*", "/", "%",
	"+", "-",
	">>", "<<",
	"&",
	"^", "|",
	"<=", "<", ">", ">=",
	"<=>", "==", "===", "!=", "=~", "!~",
	"`",
}

func matchOperatorMethod(c *cursor) (string, bool) {
	for _, op := range operatorMethods {
		if c.match(op, notOperatorChar) {
			return op, true
		}
	}
	return "", false
}

// nameExtraChars returns the characters allowed inside a name beyond
// identifier characters and ":". Method names may end in "?", "!" or "="
// and may contain a "." when they name a singleton method's receiver.
func nameExtraChars(kind int) string {
	switch kind {
	case KindMethod:
		return ".?!="
	case KindSingleton:
		return "?!="
	}
	return ""
}

// parseIdentifier reads a Ruby name of the given kind at the cursor and
// returns it together with the kind the name turned out to be. "::"
// collapses to the scope separator, operator method names are recognized
// for method kinds, and a "." inside a method name means what came before
// it was a receiver: the read restarts after the dot as a singleton
// method. Anonymous class syntax ("class << HTTP") yields kindUndefined.
func parseIdentifier(c *cursor, kind int) (string, int) {
	for {
		c.skipSpace()

		if kind == KindClass && c.peek() == '<' && c.peekAt(1) == '<' {
			return "", kindUndefined
		}

		if kind == KindMethod || kind == KindSingleton {
			if op, ok := matchOperatorMethod(c); ok {
				return op, kind
			}
		}

		extra := nameExtraChars(kind)
		var name []byte
		hadSep := false
		restarted := false

		for !c.atEnd() {
			ch := c.peek()
			if ch != ':' && !isIdentChar(ch) && !charIn(ch, extra) {
				break
			}
			c.advance()

			if ch == ':' {
				hadSep = true
			} else {
				if hadSep {
					name = append(name, scopeSeparator)
					hadSep = false
				}
				name = append(name, ch)
			}

			if kind == KindMethod && ch == '.' {
				kind = KindSingleton
				restarted = true
				break
			}
			if (kind == KindMethod || kind == KindSingleton) && charIn(ch, "?!=") {
				break
			}
		}

		if restarted {
			continue
		}
		return string(name), kind
	}
}

// matchConstantAssign recognizes a capitalized assignment at the cursor,
// the implicit way Ruby declares constants ("VERSION = ..."). Only the
// first "=" is inspected, so comparisons like "FOO == 1" match too. The
// cursor is left past the identifier and any following whitespace even
// when no assignment follows.
func matchConstantAssign(c *cursor) (string, bool) {
	c.skipSpace()

	if !isUpper(c.peek()) {
		return "", false
	}

	var name []byte
	for !c.atEnd() && isIdentChar(c.peek()) {
		name = append(name, c.peek())
		c.advance()
	}
	c.skipSpace()

	if c.peek() == '=' {
		return string(name), true
	}
	return "", false
}

func charIn(ch byte, list string) bool {
	return strings.IndexByte(list, ch) >= 0
}

package ruby

import (
	"strings"

	"github.com/puretechnyc/ctags/internal/lang"
	"github.com/puretechnyc/ctags/internal/tag"
)

// blockData rides on each nesting frame: the relation specs recorded
// inside the scope, waiting to be attached to its entry when it closes.
type blockData struct {
	relations []string // "verb:Target", in recorded order
}

// scanner holds the state of one scan. A fresh scanner is built per file;
// nothing here outlives or is shared across scans.
type scanner struct {
	def            *lang.Definition
	store          *tag.Store
	nesting        *lang.NestingLevels[blockData]
	inBlockComment bool
}

// Scan is the lang.ScanFunc for Ruby sources.
//
// Ruby isn't actually line-based ("def\nbanana\nend" is legal), but
// recognizing definitions at line starts only keeps this scanner out of
// nearly all trouble, and matches how the language is written in practice.
func Scan(def *lang.Definition, r *lang.Reader, store *tag.Store) error {
	s := &scanner{
		def:     def,
		store:   store,
		nesting: lang.NewNestingLevels[blockData](),
	}

	for {
		line, ok := r.ReadLine()
		if !ok {
			break
		}
		if err := s.scanLine(line, r.Line()); err != nil {
			return err
		}
	}

	// Close every scope still open at end of input so pending relation
	// specs reach their entries.
	for s.nesting.Depth() > 0 {
		if err := s.leaveScope(); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) scanLine(line []byte, lineNum int) error {
	c := newCursor(line)

	// "=begin"/"=end" toggle comment mode in column 0 only.
	if c.match("=begin", isWhitespace) {
		s.inBlockComment = true
		return nil
	}
	if c.match("=end", isWhitespace) {
		s.inBlockComment = false
		return nil
	}
	if s.inBlockComment {
		return nil
	}

	c.skipSpace()

	// After "while", "for" and "until" a separator follows before the
	// body: "do", ";" or the end of the line. Seeing one of those must
	// not open a second scope.
	expectSeparator := false

	// Modifier forms ("return if <exp>") don't reach these matches
	// because the keyword has to sit at the start of the line.
	switch {
	case c.matchKeywordAssign("for"), c.matchKeywordAssign("until"), c.matchKeywordAssign("while"):
		expectSeparator = true
		if err := s.enterUnnamedScope(lineNum); err != nil {
			return err
		}
	case c.matchKeywordAssign("case"), c.matchKeywordAssign("if"), c.matchKeywordAssign("unless"):
		if err := s.enterUnnamedScope(lineNum); err != nil {
			return err
		}
	}

	switch {
	case c.matchKeywordAssign("module"):
		if _, err := s.readAndEmit(c, KindModule, lineNum); err != nil {
			return err
		}

	case c.matchKeywordAssign("class"):
		handle, err := s.readAndEmit(c, KindClass, lineNum)
		if err != nil {
			return err
		}
		if handle != tag.NoEntry {
			c.skipSpace()
			// "<" is inheritance; "<<" opens a singleton class instead.
			if c.peek() == '<' && c.peekAt(1) != '<' {
				c.advance()
				if parent, _ := parseIdentifier(c, KindClass); parent != "" {
					if err := s.store.AttachField(handle, tag.FieldInherits, parent); err != nil {
						return err
					}
				}
			}
		}

	case c.matchKeywordAssign("include"):
		s.recordRelation(c, "include")
	case c.matchKeywordAssign("prepend"):
		s.recordRelation(c, "prepend")
	case c.matchKeywordAssign("extend"):
		s.recordRelation(c, "extend")

	case c.matchKeywordAssign("def"):
		kind := KindMethod
		// A def at the anonymous class level of "class << self" defines
		// a singleton method.
		if e := s.entryOf(s.nesting.Top()); e != nil && e.Kind == KindClass && e.Name == "" {
			kind = KindSingleton
		}
		if _, err := s.readAndEmit(c, kind, lineNum); err != nil {
			return err
		}

	default:
		if name, ok := matchConstantAssign(c); ok {
			if _, err := s.emit(name, KindConstant, lineNum); err != nil {
				return err
			}
		}
	}

	// Walk the rest of the line for scope-changing keywords. Heredocs and
	// regexp literals aren't understood; the line-start restriction above
	// keeps that from mattering much.
	for !c.atEnd() {
		switch {
		case isSpaceChar(c.peek()):
			c.advance()

		case c.peek() == '#':
			// Interpolation aside, nothing after a comment mark counts.
			return nil

		case c.matchKeyword("begin"):
			if err := s.enterUnnamedScope(lineNum); err != nil {
				return err
			}

		case c.matchKeyword("do"):
			if !expectSeparator {
				if err := s.enterUnnamedScope(lineNum); err != nil {
					return err
				}
			} else {
				expectSeparator = false
			}

		case c.matchKeyword("end") && s.nesting.Depth() > 0:
			// Leave the most recent scope. With nothing open the keyword
			// is consumed and ignored.
			if err := s.leaveScope(); err != nil {
				return err
			}

		case c.peek() == '"':
			// Skip string literals, escapes and interpolation aside.
			c.advance()
			for !c.atEnd() && c.peek() != '"' {
				c.advance()
			}
			if c.peek() == '"' {
				c.advance()
			}

		case c.peek() == ';':
			c.advance()
			expectSeparator = false

		default:
			c.advance()
			c.advanceWhile(isIdentChar)
		}
	}
	return nil
}

// readAndEmit parses a name of the expected kind at the cursor and records
// it. Nothing is read unless the keyword was followed by whitespace. A
// name that can't be used (anonymous class syntax, or an interpolated name
// like "def #{name}") still opens an unnamed scope so the matching "end"
// stays balanced.
func (s *scanner) readAndEmit(c *cursor, expected int, lineNum int) (int, error) {
	if !isSpaceChar(c.peek()) {
		return tag.NoEntry, nil
	}
	name, kind := parseIdentifier(c, expected)
	if kind == kindUndefined || name == "" {
		return tag.NoEntry, s.enterUnnamedScope(lineNum)
	}
	return s.emit(name, kind, lineNum)
}

// emit records an entry for name at the current nesting and opens a scope
// for it, except for constants, which don't have bodies. Returns the
// store handle, or tag.NoEntry when the kind is disabled.
func (s *scanner) emit(name string, kind int, lineNum int) (int, error) {
	if !s.def.Kinds[kind].Enabled {
		return tag.NoEntry, nil
	}

	scope := s.scopeName()
	parentKind := kindUndefined
	if e := s.entryOf(s.nesting.Top()); e != nil {
		parentKind = e.Kind
	}

	unqualified := name
	if i := strings.LastIndexByte(name, scopeSeparator); i >= 0 && i+1 < len(name) {
		if i > 0 {
			if scope != "" {
				scope += string(scopeSeparator)
			}
			scope += name[:i]
			// Assume a module parent for lack of a better option.
			parentKind = KindModule
		}
		unqualified = name[i+1:]
	}

	e := tag.Entry{
		Name:      unqualified,
		Kind:      kind,
		Line:      lineNum,
		ScopeKind: tag.NoKind,
	}
	if scope != "" {
		e.ScopeKind = parentKind
		e.ScopeName = scope
	}

	handle, err := s.store.Create(e)
	if err != nil {
		return tag.NoEntry, err
	}
	if kind != KindConstant {
		s.nesting.Push(handle)
	}
	return handle, nil
}

// enterUnnamedScope opens a scope with no name of its own. When the
// enclosing frame carries an entry, a placeholder entry of the same kind
// is recorded for the new frame; a later "def" checks that kind to tell
// singleton methods apart.
func (s *scanner) enterUnnamedScope(lineNum int) error {
	handle := tag.NoEntry
	if parent := s.entryOf(s.nesting.Top()); parent != nil {
		h, err := s.store.Create(tag.Entry{
			Kind:        parent.Kind,
			Line:        lineNum,
			ScopeKind:   tag.NoKind,
			Placeholder: true,
		})
		if err != nil {
			return err
		}
		handle = h
	}
	s.nesting.Push(handle)
	return nil
}

// recordRelation stores a "verb:Target" spec on the innermost class or
// module frame, to be attached as the mixin field when that frame closes.
// A singleton-class frame is looked through to the class beneath it.
// Outside class and module bodies the statement is ignored.
func (s *scanner) recordRelation(c *cursor, verb string) {
	lvl := s.nesting.Top()
	e := s.entryOf(lvl)
	if e == nil {
		return
	}
	if e.Kind == KindSingleton {
		lvl = s.nesting.At(s.nesting.Depth() - 2)
		e = s.entryOf(lvl)
		if e == nil {
			return
		}
	}
	if e.Kind != KindClass && e.Kind != KindModule {
		return
	}

	if !isSpaceChar(c.peek()) {
		return
	}
	target, _ := parseIdentifier(c, KindModule)
	if target == "" {
		return
	}
	lvl.Data.relations = append(lvl.Data.relations, verb+":"+target)
}

// leaveScope pops the innermost frame and attaches the relation specs
// recorded in it to the frame's entry.
func (s *scanner) leaveScope() error {
	lvl, ok := s.nesting.Pop()
	if !ok {
		return nil
	}
	if lvl.Entry == tag.NoEntry || len(lvl.Data.relations) == 0 {
		return nil
	}
	return s.store.AttachField(lvl.Entry, tag.FieldMixin, joinRelations(lvl.Data.relations))
}

// joinRelations comma-joins the distinct specs in recorded order.
func joinRelations(specs []string) string {
	if len(specs) == 1 {
		return specs[0]
	}
	seen := make(map[string]struct{}, len(specs))
	var b strings.Builder
	for _, spec := range specs {
		if _, dup := seen[spec]; dup {
			continue
		}
		seen[spec] = struct{}{}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(spec)
	}
	return b.String()
}

// scopeName joins the names of the scopes entered so far. Frames opened
// by unnamed constructs contribute nothing.
func (s *scanner) scopeName() string {
	var b strings.Builder
	for i := 0; i < s.nesting.Depth(); i++ {
		e := s.entryOf(s.nesting.At(i))
		if e == nil || e.Name == "" || e.Placeholder {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(scopeSeparator)
		}
		b.WriteString(e.Name)
	}
	return b.String()
}

// entryOf returns the store entry owned by the frame, nil when the frame
// holds none.
func (s *scanner) entryOf(lvl *lang.Level[blockData]) *tag.Entry {
	if lvl == nil || lvl.Entry == tag.NoEntry {
		return nil
	}
	e, err := s.store.Get(lvl.Entry)
	if err != nil {
		return nil
	}
	return e
}

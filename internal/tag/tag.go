// Package tag holds the deferred entry store that language scanners write
// into. A scanner creates an entry the moment a declaration is recognized
// and receives a stable integer handle back; information that only becomes
// known later (inheritance, mixin relations) is attached through the handle
// while the surrounding construct is still open. Entries are read out in
// creation order once the scan finishes.
package tag

// NoEntry is the handle value meaning "no entry". Scope frames carry it
// when a construct opened a scope without producing an entry.
const NoEntry = -1

// NoKind marks an entry with no enclosing scope. ScopeKind is only
// meaningful when ScopeName is non-empty.
const NoKind = -1

// FieldID identifies an optional attachment on an entry.
type FieldID uint8

const (
	// FieldInherits carries the superclass name read from an inheritance
	// clause. Always available, regardless of language.
	FieldInherits FieldID = iota
	// FieldMixin carries how a class or module is mixed in, as
	// comma-joined "verb:Target" specs in recorded order. Languages that
	// use it declare it in their field table.
	FieldMixin
)

// FieldValue is one attached field.
type FieldValue struct {
	ID    FieldID
	Value string
}

// Entry is one recognized declaration. Kind and ScopeKind index into the
// owning language's kind table.
type Entry struct {
	Name        string
	Kind        int
	Line        int    // 1-based line the declaration was seen on
	ScopeKind   int    // kind of the innermost named enclosing scope
	ScopeName   string // separator-joined names of the enclosing scopes
	Placeholder bool   // anonymous scope holder, never part of any output

	fields []FieldValue
}

// Field returns the value attached under id.
func (e *Entry) Field(id FieldID) (string, bool) {
	for _, f := range e.fields {
		if f.ID == id {
			return f.Value, true
		}
	}
	return "", false
}

// Fields returns the attached fields in attachment order.
func (e *Entry) Fields() []FieldValue {
	return e.fields
}

// KindDef describes one kind of entry a language can produce. Letter is
// the single-character form used in tags files and kind selection flags.
type KindDef struct {
	Letter      byte
	Name        string
	Description string
	Enabled     bool
}

// FieldDef declares an optional field a language attaches to its entries.
type FieldDef struct {
	ID          FieldID
	Name        string
	Description string
	Enabled     bool
}

// Package lang connects language scanners to the input they run over: the
// registry mapping file extensions to scanners, the line reader scanners
// consume, and the scope stack shared by scanner implementations.
package lang

import (
	"github.com/puretechnyc/ctags/internal/ports"
	"github.com/puretechnyc/ctags/internal/tag"
)

// ScanFunc runs a language scanner over r, recording what it finds in
// store. def is the scanner's own registered definition; implementations
// consult it for kind enablement.
type ScanFunc func(def *Definition, r *Reader, store *tag.Store) error

// Definition registers one language front-end.
type Definition struct {
	Name       string
	Extensions []string // claimed file extensions, without the leading dot
	Kinds      []tag.KindDef
	Fields     []tag.FieldDef
	Scan       ScanFunc
}

// FieldEnabled reports whether the definition declared id and left it
// enabled.
func (d *Definition) FieldEnabled(id tag.FieldID) bool {
	for _, f := range d.Fields {
		if f.ID == id {
			return f.Enabled
		}
	}
	return false
}

// Records converts the finalized entries in store into their output form,
// in creation order. Placeholder entries never appear in the result, and
// values of disabled fields are dropped.
func Records(def *Definition, store *tag.Store) []*ports.TagRecord {
	recs := make([]*ports.TagRecord, 0, store.Len())
	for i := 0; i < store.Len(); i++ {
		e := store.At(i)
		if e.Placeholder || e.Name == "" {
			continue
		}
		kind := def.Kinds[e.Kind]
		rec := &ports.TagRecord{
			Name:     e.Name,
			Kind:     kind.Name,
			KindChar: string(kind.Letter),
			Line:     e.Line,
			Language: def.Name,
		}
		if e.ScopeName != "" {
			rec.Scope = e.ScopeName
			rec.ScopeKind = def.Kinds[e.ScopeKind].Name
		}
		for _, f := range e.Fields() {
			switch f.ID {
			case tag.FieldInherits:
				rec.Inherits = f.Value
			case tag.FieldMixin:
				if def.FieldEnabled(tag.FieldMixin) {
					rec.Mixins = f.Value
				}
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

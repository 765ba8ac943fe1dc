// Package ruby recognizes class, module, method, singleton method and
// constant declarations in Ruby sources. It works a line at a time with a
// handful of heuristics rather than a real parse: definitions are expected
// at the start of a line, scope is tracked by counting the keywords that
// open and close blocks, and anything trickier (heredocs, interpolation,
// regexp literals) is skipped on a best-effort basis.
package ruby

import (
	"github.com/puretechnyc/ctags/internal/lang"
	"github.com/puretechnyc/ctags/internal/tag"
)

// Kind indices into the definition's kind table.
const (
	KindClass = iota
	KindMethod
	KindModule
	KindSingleton
	KindConstant
)

// kindUndefined marks names that turned out not to be taggable, such as
// the anonymous class in "class << HTTP".
const kindUndefined = tag.NoKind

// Definition returns a fresh registration for the Ruby scanner. Each call
// returns independent tables, so one registry's kind toggles never leak
// into another's.
func Definition() *lang.Definition {
	return &lang.Definition{
		Name:       "Ruby",
		Extensions: []string{"rb", "ruby"},
		Kinds: []tag.KindDef{
			{Letter: 'c', Name: "class", Description: "classes", Enabled: true},
			{Letter: 'f', Name: "method", Description: "methods", Enabled: true},
			{Letter: 'm', Name: "module", Description: "modules", Enabled: true},
			{Letter: 'S', Name: "singletonMethod", Description: "singleton methods", Enabled: true},
			{Letter: 'C', Name: "constant", Description: "constants", Enabled: true},
		},
		Fields: []tag.FieldDef{
			{ID: tag.FieldMixin, Name: "mixin", Description: "how the class or module is mixed in (mixin:HOW:MODULE)", Enabled: true},
		},
		Scan: Scan,
	}
}

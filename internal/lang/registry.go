package lang

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/puretechnyc/ctags/internal/tag"
)

// Registry holds the registered language definitions and resolves which
// one handles a given file. Registration happens once at startup; lookups
// afterwards are read-only.
type Registry struct {
	defs   []*Definition
	byName map[string]*Definition
	byExt  map[string]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Definition),
		byExt:  make(map[string]*Definition),
	}
}

// Register adds def to the registry. A duplicate language name or a
// contested extension claim is a programming error and rejected whole; a
// failed registration leaves the registry untouched.
func (r *Registry) Register(def *Definition) error {
	if def.Name == "" || def.Scan == nil {
		return fmt.Errorf("lang: incomplete definition %q", def.Name)
	}
	nameKey := strings.ToLower(def.Name)
	if _, dup := r.byName[nameKey]; dup {
		return fmt.Errorf("lang: language %q registered twice", def.Name)
	}
	for _, ext := range def.Extensions {
		key := extKey(ext)
		if prev, dup := r.byExt[key]; dup {
			return fmt.Errorf("lang: extension %q claimed by both %s and %s", ext, prev.Name, def.Name)
		}
	}

	r.byName[nameKey] = def
	for _, ext := range def.Extensions {
		r.byExt[extKey(ext)] = def
	}
	r.defs = append(r.defs, def)
	return nil
}

// ByName resolves a definition by language name, case-insensitively.
// Returns nil when the language is not registered.
func (r *Registry) ByName(name string) *Definition {
	return r.byName[strings.ToLower(name)]
}

// ByExtension resolves the definition claiming ext. The leading dot is
// optional. Returns nil when no language claims the extension.
func (r *Registry) ByExtension(ext string) *Definition {
	return r.byExt[extKey(ext)]
}

// Definitions returns the registrations in registration order.
func (r *Registry) Definitions() []*Definition {
	return r.defs
}

// SetEnabledKinds replaces the enabled kind set for the named language:
// exactly the kinds whose letters appear in letters stay enabled. Unknown
// letters are rejected before anything changes.
func (r *Registry) SetEnabledKinds(name, letters string) error {
	def := r.ByName(name)
	if def == nil {
		return fmt.Errorf("lang: unknown language %q", name)
	}
	for i := 0; i < len(letters); i++ {
		if kindIndex(def.Kinds, letters[i]) < 0 {
			return fmt.Errorf("lang: %s has no kind %q (valid: %s)", def.Name, string(letters[i]), kindLetters(def.Kinds))
		}
	}
	for i := range def.Kinds {
		def.Kinds[i].Enabled = strings.IndexByte(letters, def.Kinds[i].Letter) >= 0
	}
	return nil
}

// ScanFile scans src as the language registered for path's extension into
// store. The returned definition is nil when no registered language claims
// the file; callers treat that as "no tags", not as an error.
func (r *Registry) ScanFile(path string, src []byte, store *tag.Store) (*Definition, error) {
	def := r.ByExtension(filepath.Ext(path))
	if def == nil {
		return nil, nil
	}
	if err := def.Scan(def, NewReader(src), store); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return def, nil
}

func extKey(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func kindIndex(kinds []tag.KindDef, letter byte) int {
	for i := range kinds {
		if kinds[i].Letter == letter {
			return i
		}
	}
	return -1
}

func kindLetters(kinds []tag.KindDef) string {
	letters := make([]byte, len(kinds))
	for i := range kinds {
		letters[i] = kinds[i].Letter
	}
	return string(letters)
}

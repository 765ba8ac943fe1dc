// Package ports defines the interfaces (contracts) that adapters must
// implement, and the data shapes that cross them. These are the boundaries
// of the hexagonal architecture: the scanning core and the application
// layer depend only on these, never on concrete implementations.
package ports

// Storage persists the tag index to durable storage. The backing store
// (bbolt) is project-scoped: each projectID gets its own namespace.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveIndex must be transactional. A crash mid-write must
// not corrupt previously committed data.
type Storage interface {
	// SaveIndex persists the full tag index for a project, replacing any
	// prior index stored under projectID.
	SaveIndex(projectID string, index *Index) error

	// LoadIndex retrieves the tag index for a project. Returns nil, nil
	// when no index exists (fresh project).
	LoadIndex(projectID string) (*Index, error)

	// DeleteProject removes all data for a project. Idempotent: deleting
	// a nonexistent project is not an error.
	DeleteProject(projectID string) error
}

// Index is the complete tag index of one project.
type Index struct {
	Files map[uint32]*FileRecord  `json:"files"` // file_id -> file info
	Tags  map[uint32][]*TagRecord `json:"tags"`  // file_id -> tags found in it
}

// NewIndex returns an empty, usable index.
func NewIndex() *Index {
	return &Index{
		Files: make(map[uint32]*FileRecord),
		Tags:  make(map[uint32][]*TagRecord),
	}
}

// TagCount reports the total number of tags across all files.
func (ix *Index) TagCount() int {
	n := 0
	for _, tags := range ix.Tags {
		n += len(tags)
	}
	return n
}

// TagRecord is one finalized tag in its language-independent output form.
// Kind names and letters come from the language's registered kind table.
type TagRecord struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`                 // long kind name, e.g. "class"
	KindChar  string `json:"kind_char"`            // single-letter form, e.g. "c"
	Line      int    `json:"line"`                 // 1-based line of the declaration
	Scope     string `json:"scope,omitempty"`      // "Outer.Inner", empty at top level
	ScopeKind string `json:"scope_kind,omitempty"` // kind name of the innermost enclosing scope
	Inherits  string `json:"inherits,omitempty"`   // superclass, classes only
	Mixins    string `json:"mixins,omitempty"`     // "verb:Target" specs, comma-joined
	Language  string `json:"language"`
}

// FileRecord describes one scanned file.
type FileRecord struct {
	Path         string `json:"path"` // relative to the project root
	LastModified int64  `json:"last_modified"`
	Size         int64  `json:"size"`
	Language     string `json:"language"`
}

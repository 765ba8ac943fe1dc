package tag

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned by Create once the store's entry limit is
	// reached. A scan cannot continue past it.
	ErrExhausted = errors.New("tag: entry store exhausted")

	// ErrNotFound is returned for handles no Create call ever produced.
	ErrNotFound = errors.New("tag: no entry for handle")
)

// Store is an append-only arena of entries addressed by integer handles.
// Handles and the pointers returned by Get stay valid for the lifetime of
// the store; entries never move.
type Store struct {
	entries []*Entry
	limit   int
}

// NewStore returns an empty store. limit caps the number of entries a
// single scan may create; 0 means unbounded.
func NewStore(limit int) *Store {
	return &Store{limit: limit}
}

// Create appends a copy of e and returns its handle.
func (s *Store) Create(e Entry) (int, error) {
	if s.limit > 0 && len(s.entries) >= s.limit {
		return NoEntry, ErrExhausted
	}
	c := e
	s.entries = append(s.entries, &c)
	return len(s.entries) - 1, nil
}

// Get returns the entry behind handle.
func (s *Store) Get(handle int) (*Entry, error) {
	if handle < 0 || handle >= len(s.entries) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, handle)
	}
	return s.entries[handle], nil
}

// AttachField records value under id on the entry behind handle. The
// first value attached under a given id wins; attaching the same id again
// leaves the entry unchanged.
func (s *Store) AttachField(handle int, id FieldID, value string) error {
	e, err := s.Get(handle)
	if err != nil {
		return err
	}
	if _, exists := e.Field(id); exists {
		return nil
	}
	e.fields = append(e.fields, FieldValue{ID: id, Value: value})
	return nil
}

// Len reports the number of entries created so far.
func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at position i in creation order. i must be in
// [0, Len).
func (s *Store) At(i int) *Entry {
	return s.entries[i]
}

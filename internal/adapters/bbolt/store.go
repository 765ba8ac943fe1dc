// Package bbolt implements the ports.Storage interface using bbolt (embedded
// B+ tree). Each project gets its own top-level bucket holding the index as
// two blobs: the per-file tag lists in a compact binary format and the file
// table gob-encoded. Writes are transactional; a crash mid-write cannot
// corrupt previously committed data.
package bbolt

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/puretechnyc/ctags/internal/ports"
)

// Bucket keys
var (
	bucketIndex = []byte("index")
	keyTags     = []byte("tags")
	keyFiles    = []byte("files")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveIndex persists the full tag index for a project.
func (s *Store) SaveIndex(projectID string, idx *ports.Index) error {
	if idx == nil {
		return fmt.Errorf("nil index")
	}

	tagsBlob, err := encodeTagLists(idx.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	filesBlob, err := encodeGob(idx.Files)
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		ib, err := proj.CreateBucketIfNotExists(bucketIndex)
		if err != nil {
			return err
		}
		if err := ib.Put(keyTags, tagsBlob); err != nil {
			return err
		}
		return ib.Put(keyFiles, filesBlob)
	})
}

// LoadIndex retrieves the tag index for a project.
// Returns nil, nil if no index exists (fresh project).
func (s *Store) LoadIndex(projectID string) (*ports.Index, error) {
	var tagsBlob, filesBlob []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		ib := proj.Bucket(bucketIndex)
		if ib == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := ib.Get(keyTags); v != nil {
			tagsBlob = make([]byte, len(v))
			copy(tagsBlob, v)
		}
		if v := ib.Get(keyFiles); v != nil {
			filesBlob = make([]byte, len(v))
			copy(filesBlob, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tagsBlob == nil && filesBlob == nil {
		return nil, nil
	}

	idx := ports.NewIndex()

	if tagsBlob != nil {
		if idx.Tags, err = decodeTagLists(tagsBlob); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if filesBlob != nil {
		if err := decodeGob(filesBlob, &idx.Files); err != nil {
			return nil, fmt.Errorf("decode files: %w", err)
		}
	}

	return idx, nil
}

// DeleteProject removes all stored data for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteProject(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(projectID)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puretechnyc/ctags/internal/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleIndex() *ports.Index {
	idx := ports.NewIndex()
	idx.Files[1] = &ports.FileRecord{Path: "lib/pets/dog.rb", LastModified: 1724500000, Size: 640, Language: "Ruby"}
	idx.Files[2] = &ports.FileRecord{Path: "lib/pets.rb", LastModified: 1724500100, Size: 120, Language: "Ruby"}
	idx.Tags[1] = []*ports.TagRecord{
		{Name: "Dog", Kind: "class", KindChar: "c", Line: 3, Scope: "Pets", ScopeKind: "module", Inherits: "Animal", Mixins: "include:Comparable", Language: "Ruby"},
		{Name: "bark", Kind: "method", KindChar: "f", Line: 7, Scope: "Pets.Dog", ScopeKind: "class", Language: "Ruby"},
	}
	idx.Tags[2] = []*ports.TagRecord{
		{Name: "Pets", Kind: "module", KindChar: "m", Line: 1, Language: "Ruby"},
	}
	return idx
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	idx := sampleIndex()

	require.NoError(t, store.SaveIndex("proj1", idx))

	loaded, err := store.LoadIndex("proj1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, idx, loaded)
}

func TestStore_LoadMissingProject(t *testing.T) {
	store := newTestStore(t)

	idx, err := store.LoadIndex("never-saved")
	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestStore_SaveNilIndexRejected(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.SaveIndex("proj1", nil))
}

func TestStore_EmptyIndexIsNotMissing(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveIndex("proj1", ports.NewIndex()))

	loaded, err := store.LoadIndex("proj1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Files)
	assert.Empty(t, loaded.Tags)
}

func TestStore_OverwriteReplacesIndex(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveIndex("proj1", sampleIndex()))

	smaller := ports.NewIndex()
	smaller.Files[7] = &ports.FileRecord{Path: "app.rb", Language: "Ruby"}
	smaller.Tags[7] = []*ports.TagRecord{{Name: "App", Kind: "class", KindChar: "c", Line: 1, Language: "Ruby"}}
	require.NoError(t, store.SaveIndex("proj1", smaller))

	loaded, err := store.LoadIndex("proj1")
	require.NoError(t, err)
	assert.Equal(t, smaller, loaded)
}

func TestStore_ProjectsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveIndex("proj1", sampleIndex()))

	other := ports.NewIndex()
	other.Files[9] = &ports.FileRecord{Path: "other.rb", Language: "Ruby"}
	require.NoError(t, store.SaveIndex("proj2", other))

	loaded1, err := store.LoadIndex("proj1")
	require.NoError(t, err)
	loaded2, err := store.LoadIndex("proj2")
	require.NoError(t, err)

	assert.Len(t, loaded1.Files, 2)
	assert.Len(t, loaded2.Files, 1)
}

func TestStore_DeleteProject(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveIndex("proj1", sampleIndex()))

	require.NoError(t, store.DeleteProject("proj1"))

	idx, err := store.LoadIndex("proj1")
	require.NoError(t, err)
	assert.Nil(t, idx)

	// Idempotent
	assert.NoError(t, store.DeleteProject("proj1"))
	assert.NoError(t, store.DeleteProject("never-existed"))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveIndex("proj1", sampleIndex()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadIndex("proj1")
	require.NoError(t, err)
	assert.Equal(t, sampleIndex(), loaded)
}

func TestEncodeTagLists_Deterministic(t *testing.T) {
	idx := sampleIndex()

	a, err := encodeTagLists(idx.Tags)
	require.NoError(t, err)
	b, err := encodeTagLists(idx.Tags)
	require.NoError(t, err)

	// Map iteration order must not leak into the encoding.
	assert.Equal(t, a, b)
}

func TestEncodeTagLists_EmptyRoundTrip(t *testing.T) {
	blob, err := encodeTagLists(map[uint32][]*ports.TagRecord{})
	require.NoError(t, err)

	decoded, err := decodeTagLists(blob)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeTagLists_Corrupt(t *testing.T) {
	blob, err := encodeTagLists(sampleIndex().Tags)
	require.NoError(t, err)

	// Every truncation point must error, never panic.
	for cut := 0; cut < len(blob); cut += 7 {
		_, err := decodeTagLists(blob[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestDecodeTagLists_CountOverflow(t *testing.T) {
	// A header claiming more files than the blob can hold is rejected
	// before any allocation.
	blob := []byte{0xff, 0xff, 0xff, 0xff}
	_, err := decodeTagLists(blob)
	assert.Error(t, err)
}

package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileIDFor returns the index fileID for a project-relative path, or 0.
func fileIDFor(a *App, relPath string) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, f := range a.Index.Files {
		if f.Path == relPath {
			return id
		}
	}
	return 0
}

func TestOnFileChanged_AddsNewFile(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	path := filepath.Join(a.ProjectRoot, "lib", "cat.rb")
	require.NoError(t, os.WriteFile(path, []byte("class Cat\nend\n"), 0644))
	a.onFileChanged(path)

	files, tags := a.IndexCounts()
	assert.Equal(t, 3, files)
	assert.Equal(t, 6, tags)

	data, err := os.ReadFile(a.TagsPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Cat\tlib/cat.rb\t1;\"\tc\n")
}

func TestOnFileChanged_FirstFileOfEmptyIndex(t *testing.T) {
	a := newTestApp(t, nil)

	path := filepath.Join(a.ProjectRoot, "solo.rb")
	require.NoError(t, os.WriteFile(path, []byte("class Solo\nend\n"), 0644))
	a.onFileChanged(path)

	assert.Equal(t, uint32(1), fileIDFor(a, "solo.rb"))
	files, tags := a.IndexCounts()
	assert.Equal(t, 1, files)
	assert.Equal(t, 1, tags)
}

func TestOnFileChanged_UpdatesExistingFileKeepsID(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	id := fileIDFor(a, "lib/zoo.rb")
	require.NotZero(t, id)

	path := filepath.Join(a.ProjectRoot, "lib", "zoo.rb")
	require.NoError(t, os.WriteFile(path,
		[]byte("class Zoo\n  VERSION = \"2.0\"\n  def open\n  end\nend\n"), 0644))
	a.onFileChanged(path)

	assert.Equal(t, id, fileIDFor(a, "lib/zoo.rb"))

	files, tags := a.IndexCounts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 6, tags)

	data, err := os.ReadFile(a.TagsPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "open\tlib/zoo.rb\t3;\"\tf\tclass:Zoo\n")
}

func TestOnFileChanged_RemovesDeletedFile(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	path := filepath.Join(a.ProjectRoot, "lib", "zoo.rb")
	require.NoError(t, os.Remove(path))
	a.onFileChanged(path)

	files, tags := a.IndexCounts()
	assert.Equal(t, 1, files)
	assert.Equal(t, 3, tags)

	data, err := os.ReadFile(a.TagsPath())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Zoo\tlib/zoo.rb")
}

func TestOnFileChanged_IgnoresForeignExtension(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	path := filepath.Join(a.ProjectRoot, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("class NotRuby\nend\n"), 0644))
	a.onFileChanged(path)

	files, tags := a.IndexCounts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 5, tags)
}

func TestOnFileChanged_IgnoresOwnArtifacts(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	a.onFileChanged(a.TagsPath())
	a.onFileChanged(a.Paths.DB)

	files, tags := a.IndexCounts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 5, tags)
}

func TestOnFileChanged_OversizedFileDropsRecords(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	path := filepath.Join(a.ProjectRoot, "lib", "zoo.rb")
	require.NoError(t, os.WriteFile(path,
		[]byte("# "+strings.Repeat("z", maxFileSize)+"\n"), 0644))
	a.onFileChanged(path)

	assert.Zero(t, fileIDFor(a, "lib/zoo.rb"))
	files, tags := a.IndexCounts()
	assert.Equal(t, 1, files)
	assert.Equal(t, 3, tags)
}

func TestOnFileChanged_PersistsToStore(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	path := filepath.Join(a.ProjectRoot, "lib", "cat.rb")
	require.NoError(t, os.WriteFile(path, []byte("class Cat\nend\n"), 0644))
	a.onFileChanged(path)

	loaded, err := a.Store.LoadIndex(a.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 6, loaded.TagCount())

	found := false
	for _, f := range loaded.Files {
		if f.Path == "lib/cat.rb" {
			found = true
		}
	}
	assert.True(t, found, "lib/cat.rb missing from persisted index")
}

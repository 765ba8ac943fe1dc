package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puretechnyc/ctags/internal/adapters/socket"
)

// petProject is a small Ruby tree used across the app tests:
// 2 files, 5 tags (module, 2 classes, method, constant).
var petProject = map[string]string{
	"lib/pets.rb": "module Pets\n  class Dog < Animal\n    include Comparable\n    def bark\n    end\n  end\nend\n",
	"lib/zoo.rb":  "class Zoo\n  VERSION = \"1.0\"\nend\n",
}

// newTestApp wires an App over a fresh temp project containing files.
func newTestApp(t *testing.T, files map[string]string) *App {
	t.Helper()
	root := t.TempDir()
	writeProjectFiles(t, root, files)
	a, err := New(Options{ProjectRoot: root})
	require.NoError(t, err)
	t.Cleanup(func() { a.Stop() })
	return a
}

func TestNew_Defaults(t *testing.T) {
	root := t.TempDir()
	a, err := New(Options{ProjectRoot: root})
	require.NoError(t, err)
	defer a.Stop()

	assert.Equal(t, filepath.Base(root), a.ProjectID)
	assert.Equal(t, a.Paths.DB, filepath.Join(root, ".ctags", "index.db"))
	assert.DirExists(t, a.Paths.Root)
	assert.Equal(t, filepath.Join(root, "tags"), a.TagsPath())

	files, tags := a.IndexCounts()
	assert.Zero(t, files)
	assert.Zero(t, tags)
}

func TestNew_RequiresProjectRoot(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestNew_ReadsProjectConfig(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, "output: TAGS\n")

	a, err := New(Options{ProjectRoot: root})
	require.NoError(t, err)
	defer a.Stop()

	assert.Equal(t, filepath.Join(root, "TAGS"), a.TagsPath())
}

func TestNew_MalformedConfigFails(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, "kinds: [broken\n")

	_, err := New(Options{ProjectRoot: root})
	require.Error(t, err)
}

func TestApp_ReindexBuildsPersistsAndWritesTags(t *testing.T) {
	a := newTestApp(t, petProject)

	res, err := a.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 2, res.FileCount)
	assert.Equal(t, 5, res.TagCount)

	files, tags := a.IndexCounts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 5, tags)

	// Tags file written with full extension fields.
	data, err := os.ReadFile(a.TagsPath())
	require.NoError(t, err)
	assert.Contains(t, string(data),
		"Dog\tlib/pets.rb\t2;\"\tc\tmodule:Pets\tinherits:Animal\tmixin:include:Comparable\n")

	// Index persisted to the store.
	loaded, err := a.Store.LoadIndex(a.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 5, loaded.TagCount())
}

func TestApp_StatsTallies(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	st := a.Stats()
	assert.Equal(t, a.ProjectRoot, st.ProjectRoot)
	assert.Equal(t, a.Paths.DB, st.DBPath)
	assert.Equal(t, a.TagsPath(), st.TagsPath)
	assert.Equal(t, 2, st.FileCount)
	assert.Equal(t, 5, st.TagCount)
	assert.Equal(t, map[string]int{"class": 2, "method": 1, "module": 1, "constant": 1}, st.Kinds)
	assert.Equal(t, map[string]int{"Ruby": 2}, st.Languages)
}

func TestApp_WipeClearsPersistedData(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	require.NoError(t, a.Wipe())

	files, tags := a.IndexCounts()
	assert.Zero(t, files)
	assert.Zero(t, tags)

	loaded, err := a.Store.LoadIndex(a.ProjectID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestApp_IndexSurvivesRestart(t *testing.T) {
	root := t.TempDir()
	writeProjectFiles(t, root, petProject)

	a1, err := New(Options{ProjectRoot: root})
	require.NoError(t, err)
	_, err = a1.Reindex()
	require.NoError(t, err)
	require.NoError(t, a1.Stop())

	a2, err := New(Options{ProjectRoot: root})
	require.NoError(t, err)
	defer a2.Stop()

	files, tags := a2.IndexCounts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 5, tags)
}

func TestApp_StartServesSocket(t *testing.T) {
	a := newTestApp(t, petProject)
	_, err := a.Reindex()
	require.NoError(t, err)

	require.NoError(t, a.Start())
	assert.Equal(t, os.Getpid(), a.Paths.ReadPID())

	client := socket.NewClient(socket.SocketPath(a.ProjectRoot))
	require.True(t, client.Ping())

	h, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 2, h.FileCount)
	assert.Equal(t, 5, h.TagCount)

	require.NoError(t, a.Stop())
	assert.False(t, client.Ping())
	assert.Zero(t, a.Paths.ReadPID())
}

package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/puretechnyc/ctags/internal/adapters/tagfile"
	"github.com/puretechnyc/ctags/internal/ports"
)

// onFileChanged handles a file create/modify/delete event from the
// watcher. It rescans the single file, replaces its records in the
// index, persists, and rewrites the tags file.
func (a *App) onFileChanged(absPath string) {
	// Never react to our own artifacts.
	if absPath == a.TagsPath() {
		return
	}
	if strings.HasPrefix(absPath, a.Paths.Root+string(filepath.Separator)) {
		return
	}

	def := a.Registry.ByExtension(filepath.Ext(absPath))
	if def == nil {
		return
	}

	relPath, err := filepath.Rel(a.ProjectRoot, absPath)
	if err != nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Find the existing fileID for this path, if any.
	var existingID uint32
	for id, f := range a.Index.Files {
		if f.Path == relPath {
			existingID = id
			break
		}
	}

	info, statErr := os.Stat(absPath)
	if statErr != nil {
		// File removed.
		if existingID > 0 {
			a.removeFile(existingID)
			a.persist()
		}
		return
	}

	// Oversized files are never scanned; drop any stale records.
	if info.Size() > maxFileSize {
		if existingID > 0 {
			a.removeFile(existingID)
			a.persist()
		}
		return
	}

	_, recs, err := scanSourceFile(a.Registry, absPath)
	if err != nil {
		return
	}

	fileID := existingID
	if fileID == 0 {
		for id := range a.Index.Files {
			if id >= fileID {
				fileID = id + 1
			}
		}
		if fileID == 0 {
			fileID = 1
		}
	}

	a.Index.Files[fileID] = &ports.FileRecord{
		Path:         relPath,
		LastModified: info.ModTime().Unix(),
		Size:         info.Size(),
		Language:     def.Name,
	}
	delete(a.Index.Tags, fileID)
	if len(recs) > 0 {
		a.Index.Tags[fileID] = recs
	}
	a.persist()
}

// removeFile drops all index entries for fileID. Must be called with
// a.mu held.
func (a *App) removeFile(fileID uint32) {
	delete(a.Index.Files, fileID)
	delete(a.Index.Tags, fileID)
}

// persist saves the index and rewrites the tags file. Best effort; the
// next change retries. Must be called with a.mu held.
func (a *App) persist() {
	_ = a.Store.SaveIndex(a.ProjectID, a.Index)
	_ = tagfile.WriteFile(a.TagsPath(), a.Index, Program)
}

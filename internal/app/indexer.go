package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/puretechnyc/ctags/internal/lang"
	"github.com/puretechnyc/ctags/internal/ports"
	"github.com/puretechnyc/ctags/internal/tag"
)

// IndexResult summarizes what BuildIndex produced.
type IndexResult struct {
	FileCount int
	TagCount  int
}

// skipDirs are directory names never descended into. Mirrors the watcher's
// ignore set so a full build and incremental updates cover the same tree.
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".bundle":      true,
	"vendor":       true,
	"node_modules": true,
	"coverage":     true,
	"log":          true,
	"tmp":          true,
	".idea":        true,
	".vscode":      true,
	".ctags":       true,
}

// maxFileSize caps how large a file the scanner will read.
const maxFileSize = 1 << 20 // 1MB

// BuildIndex walks root and scans every file some registered language
// claims, producing a fresh index. Directories in skipDirs and cfg.Exclude
// are not descended into. Unreadable or oversized files are skipped, not
// fatal.
func BuildIndex(root string, reg *lang.Registry, cfg *Config) (*ports.Index, *IndexResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root: %w", err)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var files []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			name := filepath.Base(path)
			if path != absRoot && (skipDirs[name] || cfg.ExcludedDir(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if reg.ByExtension(filepath.Ext(path)) == nil {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", absRoot, err)
	}

	// Deterministic file IDs regardless of walk order.
	sort.Strings(files)

	idx := ports.NewIndex()
	var fileID uint32

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > maxFileSize {
			continue
		}

		def, recs, err := scanSourceFile(reg, path)
		if err != nil || def == nil {
			continue
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			continue
		}

		fileID++
		idx.Files[fileID] = &ports.FileRecord{
			Path:         relPath,
			LastModified: info.ModTime().Unix(),
			Size:         info.Size(),
			Language:     def.Name,
		}
		if len(recs) > 0 {
			idx.Tags[fileID] = recs
		}
	}

	result := &IndexResult{
		FileCount: len(idx.Files),
		TagCount:  idx.TagCount(),
	}
	return idx, result, nil
}

// scanSourceFile reads and scans one file, returning its language
// definition and finalized records. A nil definition means no registered
// language claims the file.
func scanSourceFile(reg *lang.Registry, path string) (*lang.Definition, []*ports.TagRecord, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	store := tag.NewStore(0)
	def, err := reg.ScanFile(path, source, store)
	if err != nil || def == nil {
		return nil, nil, err
	}
	return def, lang.Records(def, store), nil
}

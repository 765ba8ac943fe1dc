// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a project tree,
// filters out noise the indexer never reads (VCS metadata, dependency
// trees, our own output files), and debounces rapid events, since editors
// often trigger multiple writes per save.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories never watched or reported.
var ignoreDirs = map[string]bool{
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

// Exact file names never reported. "tags" is our own output; reporting it
// would make every index write schedule another scan.
var ignoreNames = map[string]bool{
	".DS_Store": true,
	"tags":      true,
}

// File suffixes never reported.
var ignoreSuffixes = []string{".swp", ".swo", ".swx", ".tmp", "~"}

// ignorePrefixes covers the temp files the tag writer renames into place.
var ignorePrefixes = []string{".tags-"}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring projectPath recursively. onChange is called with
// the path of each changed file; removals and renames report the old path
// so the caller can drop stale index entries.
func (w *Watcher) Watch(projectPath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}

	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if ignoreDirs[info.Name()] && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Last event time per file, for debouncing.
	lastEvent := make(map[string]time.Time)
	var lmu sync.Mutex

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// Newly created directories join the watch list.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !ignoreDirs[info.Name()] {
							w.fw.Add(path)
						}
					}
				}

				if shouldIgnorePath(path) {
					continue
				}

				lmu.Lock()
				last, seen := lastEvent[path]
				now := time.Now()
				if seen && now.Sub(last) < debounceInterval {
					lmu.Unlock()
					continue
				}
				lastEvent[path] = now
				lmu.Unlock()

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; nothing to do with the error

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath reports whether path must not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	if ignoreNames[base] {
		return true
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}

	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}

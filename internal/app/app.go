// Package app wires the adapters together: language registry, bbolt
// store, file watcher, and socket server. It provides lifecycle
// management for the ctags daemon: create, start, stop.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/puretechnyc/ctags/internal/adapters/bbolt"
	fsw "github.com/puretechnyc/ctags/internal/adapters/fsnotify"
	"github.com/puretechnyc/ctags/internal/adapters/socket"
	"github.com/puretechnyc/ctags/internal/adapters/tagfile"
	"github.com/puretechnyc/ctags/internal/lang"
	"github.com/puretechnyc/ctags/internal/lang/ruby"
	"github.com/puretechnyc/ctags/internal/ports"
)

// Version is the program version reported in tags file headers and by
// the CLI.
const Version = "0.1.0"

// ProgramName is the name written to !_TAG_PROGRAM_NAME headers.
const ProgramName = "ctags"

// Program is the identity stamped into generated tags files.
var Program = tagfile.Program{Name: ProgramName, Version: Version}

// NewLanguageRegistry returns a registry with all built-in languages
// registered.
func NewLanguageRegistry() (*lang.Registry, error) {
	reg := lang.NewRegistry()
	if err := reg.Register(ruby.Definition()); err != nil {
		return nil, err
	}
	return reg, nil
}

// Options holds initialization parameters for the App.
type Options struct {
	ProjectRoot string
	ProjectID   string // default: base name of ProjectRoot
	DBPath      string // default: .ctags/index.db
}

// App is the top-level container wiring all components together. The
// daemon owns one; one-shot commands use the adapters directly.
type App struct {
	ProjectRoot string
	ProjectID   string
	Paths       *Paths
	Config      *Config
	Registry    *lang.Registry
	Store       *bbolt.Store
	Watcher     *fsw.Watcher
	Server      *socket.Server
	Index       *ports.Index

	mu sync.Mutex // guards Index and its persistence
}

// New constructs a fully wired App: directories ensured, configuration
// loaded, store opened, and any persisted index loaded into memory.
func New(opts Options) (*App, error) {
	if opts.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	if opts.ProjectID == "" {
		opts.ProjectID = filepath.Base(root)
	}

	paths := NewPaths(root)
	if opts.DBPath == "" {
		opts.DBPath = paths.DB
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s dirs: %w", filepath.Base(paths.Root), err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	reg, err := NewLanguageRegistry()
	if err != nil {
		return nil, fmt.Errorf("register languages: %w", err)
	}
	if err := cfg.ApplyKinds(reg); err != nil {
		return nil, err
	}

	store, err := bbolt.NewStore(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	watcher, err := fsw.NewWatcher()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Load existing index or start empty.
	idx, err := store.LoadIndex(opts.ProjectID)
	if err != nil {
		store.Close()
		watcher.Stop()
		return nil, fmt.Errorf("load index: %w", err)
	}
	if idx == nil {
		idx = ports.NewIndex()
	}

	a := &App{
		ProjectRoot: root,
		ProjectID:   opts.ProjectID,
		Paths:       paths,
		Config:      cfg,
		Registry:    reg,
		Store:       store,
		Watcher:     watcher,
		Index:       idx,
	}
	a.Server = socket.NewServer(a, socket.SocketPath(root))
	return a, nil
}

// Start brings the daemon up: socket server first, then the file
// watcher. A watcher failure is a warning, not fatal; the daemon still
// serves queries and manual reindexes.
func (a *App) Start() error {
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if err := a.Watcher.Watch(a.ProjectRoot, a.onFileChanged); err != nil {
		fmt.Printf("warning: file watcher unavailable: %v\n", err)
	}
	if err := a.Paths.WritePID(os.Getpid()); err != nil {
		fmt.Printf("warning: could not write pid file: %v\n", err)
	}
	return nil
}

// Stop shuts everything down and persists the in-memory index.
func (a *App) Stop() error {
	a.Watcher.Stop()
	a.Server.Stop()
	a.mu.Lock()
	_ = a.Store.SaveIndex(a.ProjectID, a.Index)
	a.mu.Unlock()
	a.Store.Close()
	a.Paths.CleanEphemeral()
	return nil
}

// TagsPath returns the absolute path of the configured tags file.
func (a *App) TagsPath() string {
	return filepath.Join(a.ProjectRoot, a.Config.Output)
}

// IndexCounts reports file and tag totals of the in-memory index.
func (a *App) IndexCounts() (files, tags int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Index.Files), a.Index.TagCount()
}

// Stats summarizes the in-memory index. The socket server fills in the
// fields it owns (socket path, uptime).
func (a *App) Stats() socket.StatsResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	kinds, languages := TallyIndex(a.Index)
	return socket.StatsResult{
		ProjectRoot: a.ProjectRoot,
		DBPath:      a.Paths.DB,
		TagsPath:    a.TagsPath(),
		FileCount:   len(a.Index.Files),
		TagCount:    a.Index.TagCount(),
		Kinds:       kinds,
		Languages:   languages,
	}
}

// TallyIndex counts tags per kind name and files per language.
func TallyIndex(idx *ports.Index) (kinds, languages map[string]int) {
	kinds = make(map[string]int)
	for _, recs := range idx.Tags {
		for _, rec := range recs {
			kinds[rec.Kind]++
		}
	}
	languages = make(map[string]int)
	for _, f := range idx.Files {
		languages[f.Language]++
	}
	return kinds, languages
}

// Reindex rebuilds the index from scratch, replaces the in-memory one,
// persists it, and rewrites the tags file.
func (a *App) Reindex() (socket.ReindexResult, error) {
	start := time.Now()

	// The walk and scan run outside the lock; only the swap and the
	// writes that follow hold it.
	idx, result, err := BuildIndex(a.ProjectRoot, a.Registry, a.Config)
	if err != nil {
		return socket.ReindexResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Index = idx
	if err := a.Store.SaveIndex(a.ProjectID, a.Index); err != nil {
		return socket.ReindexResult{}, fmt.Errorf("save index: %w", err)
	}
	if err := tagfile.WriteFile(a.TagsPath(), a.Index, Program); err != nil {
		return socket.ReindexResult{}, fmt.Errorf("write tags: %w", err)
	}

	return socket.ReindexResult{
		FileCount: result.FileCount,
		TagCount:  result.TagCount,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// Wipe deletes the persisted project data and empties the in-memory
// index. The tags file on disk is left alone.
func (a *App) Wipe() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.Store.DeleteProject(a.ProjectID); err != nil {
		return err
	}
	a.Index = ports.NewIndex()
	return nil
}

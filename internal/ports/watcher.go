package ports

// Watcher monitors a project directory for file changes so the index can
// be kept fresh. The adapter (fsnotify) must filter out non-source
// directories (.git, node_modules, etc.) before invoking onChange. Only
// one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring projectPath recursively. onChange is called
	// with the absolute path of each changed file and may be invoked from
	// any goroutine. Returns an error when the directory doesn't exist or
	// permissions are insufficient.
	Watch(projectPath string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop
	// returns, no further onChange calls fire. Safe to call repeatedly.
	Stop() error
}

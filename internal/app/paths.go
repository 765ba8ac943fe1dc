package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Paths holds all resolved filesystem paths for the .ctags/ project
// directory. All fields are pre-computed strings.
type Paths struct {
	Root string // .ctags/
	DB   string // .ctags/index.db

	LogDir    string // .ctags/log/
	DaemonLog string // .ctags/log/daemon.log

	RunDir  string // .ctags/run/
	PIDFile string // .ctags/run/daemon.pid
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".ctags")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "index.db"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),
	}
}

// EnsureDirs creates all subdirectories under .ctags/. Idempotent.
func (p *Paths) EnsureDirs() error {
	dirs := []string{
		p.Root,
		p.LogDir,
		p.RunDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (the PID file). Called on
// clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}

// WritePID records pid in the run directory so `daemon stop` and `stats`
// can find the running daemon.
func (p *Paths) WritePID(pid int) error {
	if err := p.EnsureDirs(); err != nil {
		return err
	}
	return os.WriteFile(p.PIDFile, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

// ReadPID returns the recorded daemon PID, or 0 when no PID file exists
// or it is unparseable.
func (p *Paths) ReadPID() int {
	data, err := os.ReadFile(p.PIDFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid < 0 {
		return 0
	}
	return pid
}

// Package socket implements the control protocol for the index daemon.
// The protocol uses newline-delimited JSON over a Unix socket: each message
// is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/ctags-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/ctags-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodHealth   = "health"
	MethodStats    = "stats"
	MethodReindex  = "reindex"
	MethodWipe     = "wipe"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status    string `json:"status"`
	FileCount int    `json:"file_count"`
	TagCount  int    `json:"tag_count"`
	Uptime    string `json:"uptime"`
}

// StatsResult is the result of a stats request.
type StatsResult struct {
	ProjectRoot string         `json:"project_root"`
	DBPath      string         `json:"db_path"`
	TagsPath    string         `json:"tags_path"`
	SocketPath  string         `json:"socket_path"`
	FileCount   int            `json:"file_count"`
	TagCount    int            `json:"tag_count"`
	Kinds       map[string]int `json:"kinds,omitempty"`     // kind name -> tag count
	Languages   map[string]int `json:"languages,omitempty"` // language name -> file count
	Uptime      string         `json:"uptime,omitempty"`
}

// ReindexResult is the result of a reindex request.
type ReindexResult struct {
	FileCount int   `json:"file_count"`
	TagCount  int   `json:"tag_count"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Backend provides the daemon operations the server exposes over the
// socket. Thread safety is the implementor's responsibility; handlers may
// run concurrently.
type Backend interface {
	IndexCounts() (files, tags int)
	Stats() StatsResult
	Reindex() (ReindexResult, error)
	Wipe() error
}

// Server listens on a Unix socket and serves daemon control requests.
type Server struct {
	backend  Backend
	listener net.Listener
	sockPath string
	started  time.Time

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server. backend must not be nil.
func NewServer(backend Backend, sockPath string) *Server {
	return &Server{
		backend:    backend,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. A stale socket file left by a
// dead daemon is detected by attempting a connection first; if nothing
// answers, the file is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop shuts down the server, closing the listener and removing the socket
// file. Idempotent, so a remote shutdown followed by a signal handler's
// Stop is safe.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown
// request arrives. The daemon's main goroutine selects on this alongside
// OS signals so the process exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB max message

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodHealth:
		return s.handleHealth(req)
	case MethodStats:
		return s.handleStats(req)
	case MethodReindex:
		return s.handleReindex(req)
	case MethodWipe:
		return s.handleWipe(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleHealth(req Request) Response {
	files, tags := s.backend.IndexCounts()
	return Response{
		ID: req.ID,
		Result: HealthResult{
			Status:    "ok",
			FileCount: files,
			TagCount:  tags,
			Uptime:    time.Since(s.started).Round(time.Second).String(),
		},
	}
}

func (s *Server) handleStats(req Request) Response {
	stats := s.backend.Stats()
	stats.SocketPath = s.sockPath
	stats.Uptime = time.Since(s.started).Round(time.Second).String()
	return Response{ID: req.ID, Result: stats}
}

func (s *Server) handleReindex(req Request) Response {
	result, err := s.backend.Reindex()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleWipe(req Request) Response {
	if err := s.backend.Wipe(); err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: struct{}{}}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

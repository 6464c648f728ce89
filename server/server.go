// Package server exposes the document engine over JSON-RPC 2.0, on
// stdio for a single embedded client or on TCP for many.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/snappyview/snappy/app"
)

// Spec holds the runtime specification for the server.
type Spec struct {
	App app.Config
	Log *slog.Logger
}

func (s *Spec) setDefaults() {
	if s.Log == nil {
		s.Log = slog.Default()
	}
}

// ServeStdio runs a single session over stdin/stdout and blocks until
// the stream closes.
func ServeStdio(ctx context.Context, spec *Spec) error {
	spec.setDefaults()
	session := NewSession(uuid.NewString(), &stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	}, &SessionConfig{App: spec.App, Log: spec.Log})
	return session.Run(ctx)
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.read.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.write.Write(p) }
func (s *stdioReadWriteCloser) Close() error                { return nil }

// TCPListener accepts connections and runs one session per client.
type TCPListener struct {
	listener net.Listener
	spec     *Spec

	sessions   map[string]*Session
	sessionsMu sync.RWMutex

	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewTCPListener starts listening on addr.
func NewTCPListener(addr string, spec *Spec) (*TCPListener, error) {
	spec.setDefaults()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &TCPListener{
		listener: listener,
		spec:     spec,
		sessions: make(map[string]*Session),
	}, nil
}

// Addr returns the listener's network address.
func (l *TCPListener) Addr() net.Addr {
	return l.listener.Addr()
}

// acceptRetryDelay keeps a persistently failing Accept from spinning.
const acceptRetryDelay = 100 * time.Millisecond

// Serve accepts connections until Close is called.
func (l *TCPListener) Serve(ctx context.Context) error {
	l.spec.Log.Info("listener started", "addr", l.listener.Addr().String())

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil
			}
			l.spec.Log.Error("accept error", "error", err)
			time.Sleep(acceptRetryDelay)
			continue
		}
		l.wg.Add(1)
		go l.handleConnection(ctx, conn)
	}
}

func (l *TCPListener) handleConnection(ctx context.Context, conn net.Conn) {
	defer l.wg.Done()

	id := uuid.NewString()
	l.spec.Log.Debug("new connection", "session", id, "remote", conn.RemoteAddr().String())

	session := NewSession(id, conn, &SessionConfig{App: l.spec.App, Log: l.spec.Log})

	l.sessionsMu.Lock()
	l.sessions[id] = session
	l.sessionsMu.Unlock()

	if err := session.Run(ctx); err != nil {
		l.spec.Log.Debug("session ended with error", "session", id, "error", err)
	}

	l.sessionsMu.Lock()
	delete(l.sessions, id)
	l.sessionsMu.Unlock()

	l.spec.Log.Debug("session ended", "session", id)
}

// Close shuts down the listener and all sessions.
func (l *TCPListener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	if err := l.listener.Close(); err != nil {
		l.spec.Log.Error("error closing listener", "error", err)
	}

	l.sessionsMu.RLock()
	for _, session := range l.sessions {
		session.Close()
	}
	l.sessionsMu.RUnlock()

	l.wg.Wait()
	l.spec.Log.Info("listener stopped")
	return nil
}

// SessionCount returns the number of active sessions.
func (l *TCPListener) SessionCount() int {
	l.sessionsMu.RLock()
	defer l.sessionsMu.RUnlock()
	return len(l.sessions)
}

// Package server is the session arbiter: it accepts TCP connections,
// enforces the admission ceiling, and runs one goroutine per session that
// decodes wire frames, dispatches them to the service layer, and writes the
// replies. All mutations funnel through the operator's single-writer queue;
// the arbiter itself never touches the store directly.
package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-server/internal/service"
)

// Server owns the listener and the set of live sessions.
type Server struct {
	Logger      *logrus.Logger
	Addr        string
	MaxSessions int
	Service     *service.Service

	ln       net.Listener
	slots    chan struct{}
	sessions atomic.Int32
	closing  atomic.Bool
	wg       sync.WaitGroup

	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// New creates a server. maxSessions is the admission ceiling: connections
// beyond it are accepted at the transport level and closed immediately with
// no processing.
func New(logger *logrus.Logger, addr string, maxSessions int, svc *service.Service) *Server {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Server{
		Logger:      logger,
		Addr:        addr,
		MaxSessions: maxSessions,
		Service:     svc,
		slots:       make(chan struct{}, maxSessions),
		conns:       make(map[net.Conn]struct{}),
	}
}

// ListenAndServe blocks serving connections until Shutdown is called or the
// listener fails.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts sessions on ln. It is exported separately so tests can pass
// a listener bound to an ephemeral port.
func (s *Server) Serve(ln net.Listener) error {
	s.ln = ln
	s.Logger.WithField("addr", ln.Addr().String()).Info("Server.Serve.listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.Logger.WithError(err).Error("Server.Serve.accept error")
			continue
		}

		select {
		case s.slots <- struct{}{}:
		default:
			// Over the admission ceiling: close with no processing so the
			// server never silently blocks past the configured limit.
			s.Logger.WithField("remote", conn.RemoteAddr().String()).
				Warn("Server.Serve.session limit reached, rejecting connection")
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.slots }()
			s.handleSession(conn)
		}()
	}
}

// Shutdown stops accepting connections, closes live sessions, and waits for
// their goroutines to finish. Mutations already accepted by the operator
// complete independently of this.
func (s *Server) Shutdown() {
	s.closing.Store(true)
	if s.ln != nil {
		s.ln.Close()
	}
	s.connMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connMu.Unlock()
	s.wg.Wait()
}

// SessionCount returns the current number of live sessions and the ceiling.
func (s *Server) SessionCount() (current, ceiling int) {
	return int(s.sessions.Load()), s.MaxSessions
}

func (s *Server) track(conn net.Conn) {
	s.connMu.Lock()
	s.conns[conn] = struct{}{}
	s.connMu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
}

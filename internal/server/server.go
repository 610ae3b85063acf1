// Package server implements the TCP front of the bookmark service: an
// accept loop, one reader goroutine per connection and a single
// executor loop that owns all command execution.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/metrics"
	"github.com/MrSnakeDoc/stash/internal/protocol"
	"github.com/MrSnakeDoc/stash/internal/utils"
)

const (
	// DefaultBufferSize bounds one request line. One read of up to this
	// many bytes is treated as exactly one command: there is no
	// partial-frame buffering across reads, so a longer line is split
	// and its tail parses as a separate (almost certainly Unknown)
	// command.
	DefaultBufferSize = 8192

	// DefaultMaxConns caps concurrent client connections.
	DefaultMaxConns = 256
)

// Config holds the TCP server settings.
type Config struct {
	Addr       string
	BufferSize int
	MaxConns   int
}

// request is one framed command line awaiting execution.
type request struct {
	connID string
	line   string
	reply  chan string
}

// Server accepts client connections and serializes their commands
// through one executor goroutine. Commands from the same connection
// execute in the order their bytes were read; commands from different
// connections interleave in arrival order with no cross-connection
// guarantee.
type Server struct {
	cfg  Config
	exec *protocol.Executor
	auth *auth.Authenticator
	log  logger.Logger
	mtr  *metrics.Metrics

	listener      net.Listener
	requests      chan request
	shutdown      chan struct{}
	shutdownOnce  sync.Once
	listenerReady chan struct{}
	connSemaphore chan struct{}
	wg            sync.WaitGroup
}

// New creates a server; zero config fields fall back to defaults.
func New(cfg Config, exec *protocol.Executor, authenticator *auth.Authenticator, log logger.Logger, mtr *metrics.Metrics) *Server {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = DefaultMaxConns
	}

	return &Server{
		cfg:           cfg,
		exec:          exec,
		auth:          authenticator,
		log:           log,
		mtr:           mtr,
		requests:      make(chan request),
		shutdown:      make(chan struct{}),
		listenerReady: make(chan struct{}),
		connSemaphore: make(chan struct{}, cfg.MaxConns),
	}
}

// Serve binds the listener and blocks until the context is cancelled,
// Stop is called, or the listener fails. A listener-level I/O failure
// is fatal to the server; a failure on one client connection closes
// only that connection.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener
	close(s.listenerReady)

	s.log.Info("server listening",
		logger.String("addr", listener.Addr().String()))

	s.wg.Add(1)
	go s.executeLoop(ctx)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.shutdown:
		}
	}()

	err = s.acceptLoop(ctx)

	s.Stop()
	s.wg.Wait()
	return err
}

// WaitReady returns a channel closed once the listener is bound.
func (s *Server) WaitReady() <-chan struct{} {
	return s.listenerReady
}

// Addr returns the bound listener address, usable once WaitReady fires.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down: the listener closes, reader goroutines
// drain and the executor loop exits.
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.listener != nil {
			utils.Close(s.listener)
		}
	})
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-s.shutdown:
				return nil
			default:
				s.log.Error("accept failed, shutting down listener",
					logger.Error(err))
				return fmt.Errorf("accept: %w", err)
			}
		}

		select {
		case s.connSemaphore <- struct{}{}:
		default:
			s.log.Warn("connection limit reached, rejecting client",
				logger.String("remote", conn.RemoteAddr().String()))
			utils.Close(conn)
			continue
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer func() { <-s.connSemaphore }()
			s.handleConn(ctx, c)
		}(conn)
	}
}

// handleConn reads one buffer-sized chunk per iteration, frames it as a
// single command line and hands it to the executor loop, then writes
// the response back before reading again.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	connID := uuid.NewString()
	remote := conn.RemoteAddr().String()

	s.mtr.ConnOpened()
	s.log.Info("client connected",
		logger.String("remote", remote),
		logger.String("conn_id", connID))

	defer func() {
		utils.Close(conn)
		s.auth.Disconnect(connID)
		s.mtr.ConnClosed()
		s.log.Info("client disconnected",
			logger.String("remote", remote),
			logger.String("conn_id", connID))
	}()

	buf := make([]byte, s.cfg.BufferSize)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// End of stream or a broken connection: either way this
			// client is done.
			return
		}

		line := strings.TrimRight(string(buf[:n]), "\r\n")

		req := request{
			connID: connID,
			line:   line,
			reply:  make(chan string, 1),
		}

		select {
		case s.requests <- req:
		case <-s.shutdown:
			return
		}

		var response string
		select {
		case response = <-req.reply:
		case <-s.shutdown:
			return
		}

		if _, err := conn.Write([]byte(response)); err != nil {
			s.log.Warn("writing response failed",
				logger.String("remote", remote),
				logger.Error(err))
			return
		}
	}
}

// executeLoop is the single goroutine that runs every command. All
// session and collection state is mutated from here, which serializes
// mutations without per-command locking; the mutexes inside the stores
// only matter for the background snapshotter and cleanup probes.
func (s *Server) executeLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case req := <-s.requests:
			start := time.Now()
			cmd := protocol.Parse(req.line)
			response := s.execute(ctx, req.connID, cmd)
			s.mtr.ObserveCommand(cmd.Kind.String(), time.Since(start))
			req.reply <- response
		case <-s.shutdown:
			return
		}
	}
}

// execute runs one command and converts a panic into the generic
// internal error, so a misbehaving command cannot take the loop down
// with every connection behind it.
func (s *Server) execute(ctx context.Context, connID string, cmd protocol.Command) (response string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("command execution panicked",
				logger.String("conn_id", connID),
				logger.String("command", cmd.Kind.String()),
				logger.Any("panic", r))
			response = auth.MsgInternalError
		}
	}()
	return s.exec.Execute(ctx, connID, cmd)
}

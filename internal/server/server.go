// Package server implements the connection-handling layer: a TCP
// listener that hands each accepted connection to the worker pool as
// one job. The per-connection protocol is a minimal HTTP/1.1 subset
// driven by the request line alone.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"hellopool/pool"
)

const (
	acceptRetryInitial = 50 * time.Millisecond
	acceptRetryMax     = time.Second
)

// Config carries the parsed server settings.
type Config struct {
	// Addr is the TCP listen address.
	Addr string

	// StaticDir is the directory the HTML pages are served from.
	StaticDir string

	// Sleep is the artificial delay applied to the /sleep route.
	Sleep time.Duration

	// RateLimit caps accepted connections per second; zero disables
	// the limiter. Connections over the limit are closed immediately
	// rather than queued.
	RateLimit rate.Limit

	// RateBurst is the limiter burst size.
	RateBurst int
}

// Server accepts connections and submits one pool job per connection.
// It never inspects a connection itself; all protocol work happens
// inside the job on a worker.
type Server struct {
	cfg     Config
	pool    *pool.Pool
	log     *zap.Logger
	limiter *rate.Limiter
	ln      net.Listener
}

// New creates a server that dispatches onto p. The pool's lifecycle
// stays with the caller: Serve only submits, it never shuts p down.
func New(cfg Config, p *pool.Pool, log *zap.Logger) *Server {
	s := &Server{cfg: cfg, pool: p, log: log}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(cfg.RateLimit, cfg.RateBurst)
	}
	return s
}

// Listen binds the configured address. It must be called before Serve;
// splitting the two lets callers learn the bound address (port 0) and
// report bind errors synchronously.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound listen address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve runs the accept loop until ctx is cancelled, then closes the
// listener and returns. In-flight and queued connection jobs are not
// waited for here; draining the pool is the owner's teardown step.
func (s *Server) Serve(parent context.Context) error {
	g, ctx := errgroup.WithContext(parent)

	g.Go(func() error {
		<-ctx.Done()
		return s.ln.Close()
	})
	g.Go(func() error {
		return s.acceptLoop(ctx)
	})

	err := g.Wait()
	if parent.Err() != nil {
		// Cancellation closes the listener; the resulting accept
		// error is the expected way out, not a failure.
		return nil
	}
	return err
}

// Run is Listen followed by Serve.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) acceptLoop(ctx context.Context) error {
	bo := boff.New(acceptRetryInitial, acceptRetryMax, time.Now().UnixNano())

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return err
			}
			delay := bo.Next()
			s.log.Warn("accept failed; backing off",
				zap.Error(err),
				zap.Duration("sleep", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		bo = boff.New(acceptRetryInitial, acceptRetryMax, time.Now().UnixNano())

		if s.limiter != nil && !s.limiter.Allow() {
			s.log.Warn("connection rate limit exceeded",
				zap.String("remote", conn.RemoteAddr().String()))
			_ = conn.Close()
			continue
		}

		connID := uuid.NewString()
		err = s.pool.Submit(pool.JobFunc(func() {
			s.handleConn(connID, conn)
		}))
		if err != nil {
			// Pool is shutting down: fail this one connection and
			// keep accepting until the listener is closed, so already
			// queued jobs are unaffected.
			s.log.Warn("rejecting connection",
				zap.String("conn_id", connID),
				zap.Error(err),
			)
			_ = conn.Close()
		}
	}
}

// SPDX-License-Identifier: LGPL-3.0-or-later

package acmestub

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jahkeup/acmestub/pkg/canned"
	"github.com/jahkeup/acmestub/pkg/loopback"
)

// Server is a running ACME stub bound to a loopback port. A Server is
// single-use: once shut down it cannot be started again.
type Server struct {
	baseURL      string
	directoryURL string
	port         loopback.Port

	listener   net.Listener
	httpServer *http.Server
	transport  *http.Transport
	logger     zerolog.Logger

	shutdownOnce   sync.Once
	shutdownSignal chan struct{}
	done           chan struct{}
}

// Start binds a listener on 127.0.0.1 and serves the stub in the background
// until Shutdown is called or the configured context is canceled. Failing to
// bind is returned as an error, there is no degraded mode.
func Start(options ...Option) (*Server, error) {
	return start(nil, options...)
}

// NewTesting starts a Server for the duration of the current test. The test
// fails immediately if the server can't be started and the server is shut
// down when the test (and its subtests) complete.
func NewTesting(t testing.TB, options ...Option) *Server {
	t.Helper()

	s, err := start(t, options...)
	if err != nil {
		t.Fatalf("acmestub: %v", err)
	}
	t.Cleanup(s.Shutdown)

	return s
}

func start(t testingT, options ...Option) (*Server, error) {
	config, finalize := newConfig(t)

	for _, option := range options {
		if err := option(config); err != nil {
			return nil, fmt.Errorf("invalid options: %w", err)
		}
	}
	finalize()

	builder, err := canned.NewBuilder(config.RenderCacheSize)
	if err != nil {
		return nil, err
	}

	listener, port, err := loopback.Listen(config.Context, &config.ListenConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to listen on loopback: %w", err)
	}

	logger := config.Logger.With().Str("addr", listener.Addr().String()).Logger()
	baseURL := "http://" + port.HostPort()

	s := &Server{
		baseURL:      baseURL,
		directoryURL: baseURL + canned.DirectoryPath,
		port:         port,
		listener:     listener,
		httpServer: &http.Server{
			Handler:           NewRouter(builder, logger),
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          log.New(logger, "", 0),

			// OPTIONS * is outside of the catalog like anything else.
			DisableGeneralOptionsHandler: true,
		},
		transport:      http.DefaultTransport.(*http.Transport).Clone(),
		logger:         logger,
		shutdownSignal: make(chan struct{}),
		done:           make(chan struct{}),
	}

	go s.run(config.Context, config.ShutdownTimeout)
	logger.Debug().Str("directory", s.directoryURL).Msg("started")

	return s, nil
}

func (s *Server) run(ctx context.Context, shutdownTimeout time.Duration) {
	defer close(s.done)

	served := make(chan error, 1)
	go func() {
		served <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-s.shutdownSignal:
	case <-ctx.Done():
		s.logger.Debug().Err(ctx.Err()).Msg("context done")
	case err := <-served:
		// Serve never returns nil, the listener failed underneath us.
		s.logger.Error().Err(err).Msg("serve")
		s.httpServer.Close()
		s.transport.CloseIdleConnections()
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	err := s.httpServer.Shutdown(shutdownCtx)
	cancel()
	if err != nil {
		// drain took too long, drop whatever is left.
		s.logger.Debug().Err(err).Msg("forcing close")
		s.httpServer.Close()
	}

	if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("serve")
	}
	s.transport.CloseIdleConnections()
	s.logger.Debug().Msg("stopped")
}

// Shutdown signals the server to stop and waits until it no longer accepts
// connections. Only the first call signals, later calls return once the
// server has stopped.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownSignal)
	})
	<-s.done
}

// Done is closed once the server has stopped serving.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// DirectoryURL is the ACME directory clients should be configured with.
func (s *Server) DirectoryURL() string {
	return s.directoryURL
}

// BaseURL is the scheme://host:port prefix of every link the server hands out
// to clients that connect through Addr.
func (s *Server) BaseURL() string {
	return s.baseURL
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Port() loopback.Port {
	return s.port
}

// Client returns an http.Client whose idle connections are released when the
// server shuts down.
func (s *Server) Client() *http.Client {
	return &http.Client{
		Transport: s.transport,
		Timeout:   DefaultClientTimeout,
	}
}

var _ ACMEServer = (*Server)(nil)

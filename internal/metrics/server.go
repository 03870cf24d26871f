package metrics

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server exposes collected metrics on /metrics. It does nothing when no address is configured.
type Server struct {
	address string

	mu     sync.Mutex
	server *http.Server
	addr   net.Addr
}

// NewServer creates a metrics listener for the given address.
func NewServer(address string) *Server {
	return &Server{address: address}
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address == "" || s.server != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return errors.Wrap(err, "metrics: failed to listen")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.addr = listener.Addr()

	go func(srv *http.Server) {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics: server stopped unexpectedly")
		}
	}(s.server)

	log.WithField("address", s.addr.String()).Info("metrics: listening")

	return nil
}

// Stop shuts the listener down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.server = nil

	return err
}

// Addr returns the bound address, nil when not listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addr
}

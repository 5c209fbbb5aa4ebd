// Package server streams scene frames to renderers over websocket and QUIC
// and feeds their input back into the runner.
package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/scene"
)

// Controller is the side of the runner the server talks to.
type Controller interface {
	SetInput(in scene.Input)
	LastFrame() (scene.Frame, bool)
}

// Server represents the renderer-facing server
type Server struct {
	config     config.Server
	controller Controller
	logger     log.Log

	// Client management
	clients map[string]*client
	mu      sync.RWMutex

	// inputFrom is the client whose input the controller currently holds.
	inputMu   sync.Mutex
	inputFrom string

	// Transports
	httpServer   *http.Server
	wsListener   net.Listener
	quicListener *quic.Listener
	tlsConfig    *tls.Config

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	workerGroup sync.WaitGroup
}

// Stats contains server statistics
type Stats struct {
	ClientCount    int
	WebSocketCount int
	QUICCount      int
	Running        bool
}

func New(cfg config.Server, controller Controller, logger log.Log) *Server {
	if logger == nil {
		logger = log.Provide()
	}

	s := &Server{
		config:     cfg,
		controller: controller,
		logger:     logger.With(log.String("component", "server")),
		clients:    make(map[string]*client),
	}

	s.logger.Info("Server created",
		log.String("websocket_addr", cfg.WebSocketAddr),
		log.String("quic_addr", cfg.QUICAddr),
		log.Int("max_clients", cfg.MaxClients))

	return s
}

// Start opens the websocket listener and, when configured, the QUIC listener.
func (s *Server) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}

	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.WebSocketAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		return errors.Wrapf(err, "listen websocket on %s", s.config.WebSocketAddr)
	}
	s.wsListener = ln
	s.httpServer = &http.Server{Handler: s.Handler()}

	if s.config.QUICAddr != "" {
		if err = s.listenQUIC(); err != nil {
			_ = ln.Close()
			atomic.StoreInt32(&s.running, 0)
			return err
		}
	}

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Websocket listener failed", log.Error(err))
		}
	}()

	s.logger.Info("Server started", log.String("websocket_addr", ln.Addr().String()))
	return nil
}

// Stop closes the listeners and disconnects every client.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	atomic.StoreInt32(&s.closed, 1)

	s.logger.Info("Stopping server")

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.quicListener != nil {
		_ = s.quicListener.Close()
	}

	s.mu.RLock()
	for _, c := range s.clients {
		c.stop()
	}
	s.mu.RUnlock()

	s.workerGroup.Wait()

	s.logger.Info("Server stopped")
	return err
}

// Handler serves the websocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Broadcast queues frame for every connected client. Clients whose queue is
// full skip this frame.
func (s *Server) Broadcast(frame scene.Frame) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.clients) == 0 {
		return
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("Failed to encode frame", log.Int64("seq", frame.Seq), log.Error(err))
		return
	}

	for _, c := range s.clients {
		if !c.enqueue(payload) {
			s.logger.Debug("Frame dropped for slow client",
				log.String("client_id", c.id),
				log.Int64("seq", frame.Seq))
		}
	}
}

// WebSocketAddr returns the bound websocket address, or nil before Start.
func (s *Server) WebSocketAddr() net.Addr {
	if s.wsListener == nil {
		return nil
	}
	return s.wsListener.Addr()
}

// QUICAddr returns the bound QUIC address, or nil when QUIC is disabled.
func (s *Server) QUICAddr() net.Addr {
	if s.quicListener == nil {
		return nil
	}
	return s.quicListener.Addr()
}

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		ClientCount: len(s.clients),
		Running:     atomic.LoadInt32(&s.running) == 1,
	}
	for _, c := range s.clients {
		switch c.transport {
		case transportWebSocket:
			stats.WebSocketCount++
		case transportQUIC:
			stats.QUICCount++
		}
	}
	return stats
}

func (s *Server) register(c *client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) >= s.config.MaxClients {
		return ErrMaxClientsReached
	}
	s.clients[c.id] = c

	s.logger.Info("Client connected",
		log.String("client_id", c.id),
		log.String("transport", c.transport),
		log.Int("total_clients", len(s.clients)))
	return nil
}

func (s *Server) unregister(c *client) {
	c.stop()
	s.releaseInput(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)

	s.logger.Info("Client disconnected",
		log.String("client_id", c.id),
		log.Int("total_clients", len(s.clients)))
}

// releaseInput clears the held input when c was the last client to send any,
// so a renderer that drops mid-keypress does not keep driving the scene.
func (s *Server) releaseInput(c *client) {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()

	if s.inputFrom != c.id {
		return
	}
	s.inputFrom = ""
	s.controller.SetInput(scene.Input{})
	s.logger.Debug("Released input of departed client", log.String("client_id", c.id))
}

// greet queues the latest frame so a new renderer draws immediately.
func (s *Server) greet(c *client) {
	frame, ok := s.controller.LastFrame()
	if !ok {
		return
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("Failed to encode frame", log.Error(err))
		return
	}
	c.enqueue(payload)
}

func (s *Server) handleInput(c *client, data []byte) {
	in, err := decodeInput(data)
	if err != nil {
		s.logger.Warn("Dropping client message",
			log.String("client_id", c.id),
			log.Error(err))
		return
	}
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	s.inputFrom = c.id
	s.controller.SetInput(in)
}

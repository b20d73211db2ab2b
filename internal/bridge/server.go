package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/discovery"
	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/serial"
	"github.com/muurk/tl50ctl/internal/version"
)

const (
	// Time allowed for in-flight requests when shutting down
	shutdownWait = 10 * time.Second

	// Upper bound on a single serial send triggered by a client
	sendTimeout = 5 * time.Second
)

// Config holds the bridge configuration
type Config struct {
	Listen    string   // host:port to listen on
	Origins   []string // Allowed browser origins, empty allows all
	Advertise bool     // Announce over mDNS
	Name      string   // mDNS instance name
	Port      string   // Serial port name, advertised in TXT records
}

// Presets resolves preset names for clients.
type Presets interface {
	Preset(name string) (protocol.Command, error)
	PresetNames() []string
}

// Server represents the tl50ctl WebSocket bridge
type Server struct {
	config   Config
	sender   serial.Sender
	presets  Presets
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer *http.Server
	listener   net.Listener
	ad         *discovery.Advertisement

	// baseCtx bounds serial sends; canceled on shutdown
	baseCtx    context.Context
	cancelBase context.CancelFunc

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a new Server that writes frames through sender. presets may
// be nil, in which case preset requests fail.
func New(config Config, sender serial.Sender, presets Presets) (*Server, error) {
	if sender == nil {
		return nil, errors.New("bridge: sender is required")
	}
	if config.Listen == "" {
		return nil, errors.New("bridge: listen address is required")
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:      config,
		sender:      sender,
		presets:     presets,
		baseCtx:     baseCtx,
		cancelBase:  cancel,
		activeConns: make(map[string]*websocket.Conn),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/presets", s.handlePresets)

	return s, nil
}

// Handler returns the bridge's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Listen binds the listen address. Start calls it when needed; calling it
// first lets callers learn the bound address (e.g. for ":0").
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting tl50ctl WebSocket bridge",
		zap.String("addr", s.listener.Addr().String()),
		zap.String("port", s.config.Port),
		zap.Bool("advertise", s.config.Advertise),
	)

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			// The bridge is still usable by address.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping bridge...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) advertise() error {
	tcp, ok := s.listener.Addr().(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot advertise non-TCP address %s", s.listener.Addr())
	}
	name := s.config.Name
	if name == "" {
		name = "tl50ctl"
	}
	ad, err := discovery.Advertise(name, tcp.Port, map[string]string{
		"path":    "/ws",
		"version": version.Version,
		"serial":  s.config.Port,
	})
	if err != nil {
		return err
	}
	s.ad = ad
	return nil
}

// Shutdown gracefully shuts down the bridge
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	s.ad.Shutdown()

	var err error
	if s.httpServer != nil {
		// Hijacked WebSocket connections are not tracked by http.Server.
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			logging.Error("Error stopping HTTP server", zap.Error(shutdownErr))
			err = shutdownErr
		}
	} else if s.listener != nil {
		_ = s.listener.Close()
	}

	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "bridge shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.cancelBase()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()

	return err
}

// ActiveConnections returns the number of connected clients
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.Origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Not a browser.
		return true
	}
	for _, allowed := range s.config.Origins {
		if origin == allowed {
			return true
		}
	}
	logging.Warn("Rejected WebSocket origin", zap.String("origin", origin))
	return false
}

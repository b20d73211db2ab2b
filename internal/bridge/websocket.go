package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := r.RemoteAddr

	s.wg.Add(1)
	s.mu.Lock()
	s.activeConns[remoteAddr] = conn
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, remoteAddr)
		s.mu.Unlock()
		logging.LogConnection(remoteAddr, "websocket_closed")
		s.wg.Done()
	}()

	logging.LogConnection(remoteAddr, "websocket_upgraded")
	s.serveConn(conn, remoteAddr)
}

// serveConn reads requests until the client goes away. Only this goroutine
// writes data messages; the ping loop uses WriteControl, which gorilla
// allows concurrently.
func (s *Server) serveConn(conn *websocket.Conn, remoteAddr string) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		logging.Debug("Received pong", zap.String("remote_addr", remoteAddr))
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, remoteAddr, done)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Connection closed or error reading message",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			} else {
				logging.Debug("Connection closed by client", zap.String("remote_addr", remoteAddr))
			}
			return
		}

		logging.LogWebSocketMessage(remoteAddr, "received", messageType, data)

		var resp Response
		if messageType != websocket.TextMessage {
			resp = Response{Error: "only text messages carrying JSON are supported"}
		} else {
			resp = s.handleMessage(data)
		}

		payload, err := json.Marshal(resp)
		if err != nil {
			logging.Error("Failed to marshal response", zap.Error(err))
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logging.Info("Failed to write response",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
		logging.LogWebSocketMessage(remoteAddr, "sent", websocket.TextMessage, payload)
	}
}

// handleMessage resolves one request, sends its frame and builds the reply.
func (s *Server) handleMessage(data []byte) Response {
	req, err := ParseRequest(data)
	if err != nil {
		return Response{Error: err.Error()}
	}

	cmd, err := req.Resolve(s.presets)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}

	frame, err := cmd.Frame()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(s.baseCtx, sendTimeout)
	defer cancel()
	if err := s.sender.Send(ctx, frame); err != nil {
		logging.Error("Failed to send frame for bridge client",
			zap.String("command", cmd.String()),
			zap.Error(err),
		)
		return Response{ID: req.ID, Error: err.Error()}
	}

	logging.Info("Bridge command sent", zap.String("command", cmd.String()))
	return Response{ID: req.ID, OK: true, Frame: frame.Hex()}
}

func pingLoop(conn *websocket.Conn, remoteAddr string, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logging.Debug("Ping failed", zap.String("remote_addr", remoteAddr), zap.Error(err))
				return
			}
		}
	}
}

package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/polycollide/internal/core/observability/log"
)

const (
	transportWebSocket = "websocket"

	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c := newClient(transportWebSocket, s.config.SendBuffer)
	if err := s.register(c); err != nil {
		s.logger.Warn("Rejecting websocket client",
			log.String("remote_addr", r.RemoteAddr),
			log.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.unregister(c)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}
	c.setCloser(conn.Close)

	s.greet(c)
	go s.webSocketWritePump(conn, c)
	s.webSocketReadPump(conn, c)
}

func (s *Server) webSocketReadPump(conn *websocket.Conn, c *client) {
	defer c.stop()

	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Websocket read failed", log.String("client_id", c.id), log.Error(err))
			}
			return
		}
		s.handleInput(c, data)
	}
}

func (s *Server) webSocketWritePump(conn *websocket.Conn, c *client) {
	for {
		select {
		case msg := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("Websocket write failed", log.String("client_id", c.id), log.Error(err))
				c.stop()
				return
			}
		case <-c.done:
			return
		}
	}
}

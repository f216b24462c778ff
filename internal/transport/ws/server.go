package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/meetlink/signaling-service/internal/relay"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Server struct {
	upgrader websocket.Upgrader
	engine   *relay.Engine

	pingEvery time.Duration
}

func NewServer(engine *relay.Engine) *Server {
	return &Server{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws. The connection ID is assigned here and echoed back
// in the "connected" event; clients address negotiation messages to it.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	connID := uuid.NewString()
	c := newWsConn(conn)

	if err := s.engine.Connect(connID, c); err != nil {
		slog.Error("ws connect rejected", "conn", connID, "err", err)
		_ = c.Close()
		return
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), connID, c)

	s.engine.Disconnect(r.Context(), connID)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", connID, "err", err)
	}
}

func (s *Server) readLoop(ctx context.Context, connID string, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var ev relay.ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			_ = c.Send(relay.Message{
				Kind:    relay.EventError,
				Payload: relay.ErrorPayload{Message: "invalid message"},
			})
			continue
		}
		s.engine.HandleEvent(ctx, connID, ev)
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// wsConn serializes writes on a single websocket connection.
type wsConn struct {
	conn   *websocket.Conn
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		conn:   c,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg relay.Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SmartScan/internal/domain/models"
	"SmartScan/pkg/logger"
)

// StreamHub fans completed scan results out to websocket subscribers.
// Subscribers are write-only; anything they send is discarded.
type StreamHub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	logger   *logger.Logger
}

// NewStreamHub creates an empty hub.
func NewStreamHub(log *logger.Logger) *StreamHub {
	if log == nil {
		log = logger.NewNop()
	}
	return &StreamHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns:  make(map[*websocket.Conn]struct{}),
		logger: log,
	}
}

// Handle upgrades the connection and keeps it registered until the peer
// goes away.
func (h *StreamHub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("stream subscriber connected", logger.Int("subscribers", n))

	// Drain reads so close frames and pings are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
	return nil
}

// Broadcast sends the result to every subscriber. A failed write drops
// the subscriber.
func (h *StreamHub) Broadcast(res *models.RankedResult) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(res); err != nil {
			h.logger.Debug("stream write failed, dropping subscriber", logger.Error(err))
			h.drop(conn)
		}
	}
}

// Close disconnects all subscribers.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
	}
	h.conns = make(map[*websocket.Conn]struct{})
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

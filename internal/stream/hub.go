package stream

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/marquee-led/marquee/internal/metrics"
	"github.com/marquee-led/marquee/internal/render"
)

// ErrHubFull is returned by Register when the viewer limit is reached.
var ErrHubFull = errors.New("stream client limit reached")

const (
	maxClients   = 32
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdPublish struct {
	data []byte
}

func (cmdPublish) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// clientWriter serializes writes to one connection so a stalled client never
// blocks the hub goroutine.
type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// Hub fans rendered frames out to connected WebSocket viewers. All state is
// owned by a single goroutine fed through a command channel; public methods
// only send commands.
type Hub struct {
	cmdCh   chan hubCmd
	clients map[*websocket.Conn]*clientWriter
	logger  *slog.Logger
}

// NewHub starts the hub goroutine.
func NewHub(logger *slog.Logger) *Hub {
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clients: make(map[*websocket.Conn]*clientWriter),
		logger:  logger,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdPublish:
			h.handlePublish(c.data)
		case cmdClientCount:
			c.replyCh <- len(h.clients)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	if len(h.clients) >= maxClients {
		h.logger.Warn("rejecting stream client, limit reached", "max_clients", maxClients)
		c.conn.Close()
		c.errCh <- ErrHubFull
		return
	}
	h.clients[c.conn] = newClientWriter(c.conn)
	metrics.StreamClients.Set(float64(len(h.clients)))
	h.logger.Info("stream client connected", "clients", len(h.clients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cw, exists := h.clients[conn]
	if !exists {
		return
	}
	cw.stop()
	delete(h.clients, conn)
	metrics.StreamClients.Set(float64(len(h.clients)))
	h.logger.Info("stream client disconnected", "clients", len(h.clients))
}

func (h *Hub) handlePublish(data []byte) {
	var slow []*websocket.Conn
	for conn, cw := range h.clients {
		select {
		case cw.sendCh <- data:
		default:
			metrics.StreamFramesDropped.Inc()
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		h.logger.Warn("disconnecting slow stream client")
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleStop() {
	for conn, cw := range h.clients {
		cw.stop()
		delete(h.clients, conn)
	}
	metrics.StreamClients.Set(0)
}

// Register adds a viewer connection. It returns ErrHubFull (and closes the
// connection) when the client limit is reached.
func (h *Hub) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister removes a viewer connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// Publish sends a rendered frame to every connected viewer. Frames for
// clients whose send buffer is full are dropped and the client disconnected.
// Publish satisfies the render frame publisher contract.
func (h *Hub) Publish(frame render.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("marshalling frame failed", "error", err)
		return
	}
	h.cmdCh <- cmdPublish{data: data}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}
	return <-replyCh
}

// Stop disconnects all viewers and terminates the hub goroutine.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}

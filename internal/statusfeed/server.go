package statusfeed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teamarr/teamarr/internal/events"
	"github.com/teamarr/teamarr/internal/telemetry"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Server mirrors bus events to connected WebSocket clients. A status
// snapshot is queued first on every new connection so late joiners see
// the current run state before the live stream.
type Server struct {
	mu       sync.Mutex
	clients  map[*feedClient]struct{}
	snapshot func() any
}

// NewServer wires the feed to the bus. snapshot produces the current
// run status payload; nil disables the connect-time snapshot.
func NewServer(bus *events.Bus, snapshot func() any) *Server {
	s := &Server{
		clients:  make(map[*feedClient]struct{}),
		snapshot: snapshot,
	}
	bus.SubscribeAll(s.forward)
	return s
}

// forward runs on the publisher's goroutine. It serializes the event
// once and enqueues it to every client's send channel, non-blocking.
func (s *Server) forward(evt events.Event) error {
	data, err := MarshalEvent(evt)
	if err != nil {
		telemetry.Warnf("statusfeed: marshal error: %v", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			telemetry.Warnf("statusfeed: dropping message for slow client")
		}
	}
	return nil
}

// HandleWS is the HTTP handler for WebSocket upgrade requests.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("statusfeed: upgrade failed: %v", err)
		return
	}

	c := &feedClient{
		conn: conn,
		send: make(chan []byte, clientSendBuf),
		done: make(chan struct{}),
	}

	if s.snapshot != nil {
		if data, err := json.Marshal(Envelope{
			Type:      "status",
			Timestamp: time.Now().UTC(),
			Payload:   mustRaw(s.snapshot()),
		}); err == nil {
			c.send <- data
		}
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	telemetry.Infof("statusfeed: client connected (%s)", r.RemoteAddr)

	go s.writePump(c)
	go s.readPump(c)
}

func mustRaw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}

// writePump drains the client's send channel and writes to the WS
// connection. It owns the client lifecycle: on exit it removes the
// client from the map (so forward never sends to a stale channel) and
// closes the connection.
func (s *Server) writePump(c *feedClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("statusfeed: write error: %v", err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs and close
// frames; clients send nothing upstream. On exit it signals writePump
// via c.done, never closing c.send.
func (s *Server) readPump(c *feedClient) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(c *feedClient) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	telemetry.Infof("statusfeed: client disconnected")
}

// ListenAndServe starts the feed's HTTP server.
func (s *Server) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)

	addr := fmt.Sprintf(":%d", port)
	telemetry.Infof("statusfeed: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

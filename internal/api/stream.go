package api

import (
	"net/http"

	"car-flipper/internal/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is local-first and already behind permissive CORS.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStream upgrades the connection and subscribes it to state
// snapshots. Every mutation and background tick broadcasts the full state.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WS", "Upgrade failed: "+err.Error())
		return
	}
	// Register and push the current state under streamMu so the first
	// frame cannot interleave with a broadcast.
	s.streamMu.Lock()
	s.streams[conn] = true
	if state, err := s.Game().Snapshot(); err == nil {
		conn.WriteJSON(state)
	}
	s.streamMu.Unlock()
	go s.readLoop(conn)
}

// readLoop drains client frames until the peer goes away. Inbound
// messages are ignored; the stream is one-way.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.dropStream(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) dropStream(conn *websocket.Conn) {
	s.streamMu.Lock()
	delete(s.streams, conn)
	s.streamMu.Unlock()
	conn.Close()
}

// Broadcast pushes a fresh snapshot to every connected stream client.
// Dead connections are dropped on write failure.
func (s *Server) Broadcast() {
	s.streamMu.Lock()
	subscribers := len(s.streams)
	s.streamMu.Unlock()
	if subscribers == 0 {
		return
	}
	state, err := s.Game().Snapshot()
	if err != nil {
		return
	}
	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	for conn := range s.streams {
		if err := conn.WriteJSON(state); err != nil {
			delete(s.streams, conn)
			conn.Close()
		}
	}
}

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ControlServer accepts parameter edits over a websocket and broadcasts
// the resulting parameter state. Edits are funneled into a channel drained
// by the frame loop, so the session itself stays single-threaded.
type ControlServer struct {
	log   *zap.Logger
	edits chan<- Edit

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex

	srv *http.Server
}

func NewControlServer(addr string, edits chan<- Edit, log *zap.Logger) *ControlServer {
	s := &ControlServer{
		log:     log,
		edits:   edits,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/control", s.handleControl)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start serves in the background until Close.
func (s *ControlServer) Start() {
	go func() {
		s.log.Info("control server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("control server stopped", zap.Error(err))
		}
	}()
}

func (s *ControlServer) handleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = &sync.Mutex{}
	s.mu.Unlock()
	s.log.Info("control client connected", zap.String("remote", conn.RemoteAddr().String()))

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			var e Edit
			if err := conn.ReadJSON(&e); err != nil {
				s.log.Info("control client disconnected", zap.Error(err))
				return
			}
			s.edits <- e
		}
	}()
}

// Broadcast pushes the parameter state to every connected client. Slow or
// dead clients are dropped rather than allowed to stall the frame loop.
func (s *ControlServer) Broadcast(state []ParamState) {
	s.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(s.clients))
	for c, m := range s.clients {
		conns[c] = m
	}
	s.mu.Unlock()

	for conn, writeMu := range conns {
		writeMu.Lock()
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		err := conn.WriteJSON(state)
		writeMu.Unlock()
		if err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
}

// Close shuts the listener down and drops all clients.
func (s *ControlServer) Close() {
	s.srv.Close()
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]*sync.Mutex)
	s.mu.Unlock()
}

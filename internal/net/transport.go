package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"Sketchacad/internal/draw"
)

const (
	writeWait = 5 * time.Second
	// Client messages carry one event each.
	maxMessageSize = 4096
)

// Peer is one connected browser and the private session it drives.
type Peer struct {
	Conn    *websocket.Conn
	Session *draw.Session
}

// Server hands every WebSocket connection its own drawing session. Sessions
// are never shared between connections.
type Server struct {
	opts     draw.Options
	interval time.Duration
	upgrader websocket.Upgrader

	peers map[string]*Peer
	mu    sync.RWMutex
}

// NewServer creates a server whose sessions use opts and poll for
// unrecorded edits every interval (zero disables polling).
func NewServer(opts draw.Options, interval time.Duration) *Server {
	return &Server{
		opts:     opts,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 * 1024,
			// The endpoint serves local sketch front ends on any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[string]*Peer),
	}
}

// Handler routes /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled. Open connections end with it.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WS] Shutdown: %v", err)
		}
	}()
	log.Printf("[WS] Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}

// Count returns the number of connected peers.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}

func (s *Server) add(p *Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[p.Session.ID()] = p
	log.Printf("[WS] Session %s connected from %s", p.Session.ID(), p.Conn.RemoteAddr())
}

func (s *Server) remove(p *Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.peers, p.Session.ID())
	log.Printf("[WS] Session %s disconnected", p.Session.ID())
}

type inbound struct {
	msg ClientMessage
	err error
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	sess, err := draw.NewSession(s.opts)
	if err != nil {
		log.Printf("[WS] Session setup failed: %v", err)
		conn.Close()
		return
	}
	conn.SetReadLimit(maxMessageSize)
	peer := &Peer{Conn: conn, Session: sess}
	adapter := &connAdapter{sess: sess}
	if err := adapter.Register(sess); err != nil {
		log.Printf("[WS] Register failed: %v", err)
		sess.Close()
		conn.Close()
		return
	}
	s.add(peer)

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		// cancel first so a pending timer dispatch gives up before Close
		// waits for the timer goroutine
		cancel()
		adapter.Unregister()
		sess.Close()
		conn.Close()
		s.remove(peer)
	}()

	msgs := make(chan inbound)
	readErr := make(chan error, 1)
	go readLoop(ctx, conn, msgs, readErr)

	ticks := make(chan func())
	dispatch := func(fn func()) {
		select {
		case ticks <- fn:
		case <-ctx.Done():
		}
	}
	if err := sess.StartAutosnapshot(s.interval, dispatch); err != nil {
		log.Printf("[WS] Autosnapshot for %s: %v", sess.ID(), err)
	}

	if err := writeMessage(conn, ServerMessage{Type: MsgHello, Session: sess.ID()}); err != nil {
		return
	}
	sent := markOf(sess)
	if err := writeMessage(conn, stateMessage(sess)); err != nil {
		return
	}

	for {
		select {
		case in := <-msgs:
			if in.err == nil {
				in.err = adapter.apply(in.msg)
			}
			if in.err != nil {
				if err := writeMessage(conn, ServerMessage{Type: MsgError, Error: in.err.Error()}); err != nil {
					return
				}
			}
		case fn := <-ticks:
			fn()
		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Session %s read: %v", sess.ID(), err)
			}
			return
		case <-ctx.Done():
			return
		}
		if m := markOf(sess); m != sent {
			sent = m
			if err := writeMessage(conn, stateMessage(sess)); err != nil {
				return
			}
		}
	}
}

// mark identifies what a client has seen: planes, tools and history position.
type mark struct {
	version uint64
	cursor  int
	entries int
}

func markOf(s *draw.Session) mark {
	return mark{version: s.Version(), cursor: s.History().Cursor(), entries: s.History().Len()}
}

func readLoop(ctx context.Context, conn *websocket.Conn, out chan<- inbound, errc chan<- error) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			errc <- err
			return
		}
		var in inbound
		if err := json.Unmarshal(data, &in.msg); err != nil {
			in.err = fmt.Errorf("malformed message: %w", err)
		}
		select {
		case out <- in:
		case <-ctx.Done():
			return
		}
	}
}

func writeMessage(conn *websocket.Conn, m ServerMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(m); err != nil {
		log.Printf("[WS] Write %s: %v", m.Type, err)
		return err
	}
	return nil
}

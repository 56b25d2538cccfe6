package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/genricoloni/musicbridge/internal/artwork"
	"github.com/genricoloni/musicbridge/internal/commands"
	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/engine"
	"github.com/genricoloni/musicbridge/internal/surface"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	nowPlayingPath  = "/now-playing"
	artworkPath     = "/artwork"
	commandTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Invoker runs inbound commands
type Invoker interface {
	Invoke(ctx context.Context, name domain.CommandName) error
}

// Registrar registers surfaces for polling
type Registrar interface {
	Register(surface domain.Surface, kind engine.Kind) *engine.Registration
}

// ArtworkSource produces the current artwork thumbnail
type ArtworkSource interface {
	Current(ctx context.Context) ([]byte, error)
}

// inbound is a command frame sent by a page
type inbound struct {
	Command string `json:"command"`
}

// Server exposes the surfaces over HTTP and keeps the live panel in sync
// with connected pages
type Server struct {
	logger    *zap.Logger
	addr      string
	hub       *Hub
	invoker   Invoker
	registrar Registrar
	artwork   ArtworkSource
	status    *surface.StatusStrip
	tree      *surface.Tree
	panel     *surface.Panel
	upgrader  websocket.Upgrader

	// visibleMu guards the live panel registration
	visibleMu sync.Mutex
	live      *engine.Registration

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates the HTTP host surface
func NewServer(
	logger *zap.Logger,
	cfg domain.Config,
	hub *Hub,
	invoker Invoker,
	registrar Registrar,
	art ArtworkSource,
	status *surface.StatusStrip,
	tree *surface.Tree,
	panel *surface.Panel,
) *Server {
	s := &Server{
		logger:    logger,
		addr:      cfg.GetListenAddr(),
		hub:       hub,
		invoker:   invoker,
		registrar: registrar,
		artwork:   art,
		status:    status,
		tree:      tree,
		panel:     panel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	panel.OnRender(func(view surface.PanelView) {
		hub.Broadcast(panelMessage(view))
	})

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func panelMessage(view surface.PanelView) Message {
	return Message{Type: MessagePanel, HTML: view.Fragment, Background: view.Background}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /tree", s.handleTree)
	mux.HandleFunc("GET /panel", s.handlePanel)
	mux.HandleFunc("GET "+artworkPath, s.handleArtwork)
	mux.HandleFunc("GET "+nowPlayingPath, s.handleNowPlaying)
	mux.HandleFunc("POST /commands/{name}", s.handleCommand)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start begins listening. It returns once the listener is bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the HTTP server down and disconnects every page
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server stopping...")

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)

	s.visibleMu.Lock()
	s.hub.CloseAll()
	live := s.detachPanelLocked()
	s.visibleMu.Unlock()
	s.disposePanel(live)

	if errors.Is(err, context.DeadlineExceeded) {
		err = multierr.Append(err, s.httpServer.Close())
	}
	return err
}

// connect adds a page. The first page makes the panel visible.
func (s *Server) connect(conn *websocket.Conn) *client {
	s.visibleMu.Lock()
	defer s.visibleMu.Unlock()

	c, count := s.hub.add(conn)
	if count == 1 && s.live == nil {
		s.live = s.registrar.Register(s.panel, engine.KindLive)
		s.logger.Info("Panel visible, live refresh started", zap.String("registration", s.live.ID))
	}
	return c
}

// disconnect removes a page. The last page hides the panel.
// Disposal waits for an in-flight refresh, so it runs outside visibleMu.
func (s *Server) disconnect(c *client) {
	var live *engine.Registration

	s.visibleMu.Lock()
	if remaining, ok := s.hub.remove(c); ok && remaining == 0 {
		live = s.detachPanelLocked()
	}
	s.visibleMu.Unlock()

	s.disposePanel(live)
}

// detachPanelLocked marks the panel hidden and hands back its registration
func (s *Server) detachPanelLocked() *engine.Registration {
	live := s.live
	s.live = nil
	return live
}

func (s *Server) disposePanel(live *engine.Registration) {
	if live == nil {
		return
	}
	live.Dispose()
	s.logger.Info("Panel hidden, live refresh stopped", zap.String("registration", live.ID))
}

// PanelVisible reports whether the live panel is registered
func (s *Server) PanelVisible() bool {
	s.visibleMu.Lock()
	defer s.visibleMu.Unlock()
	return s.live != nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	view, ok := s.status.Latest()
	if !ok {
		http.Error(w, "status not rendered yet", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	view, ok := s.tree.Latest()
	if !ok {
		http.Error(w, "tree not rendered yet", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.panel.Document()))
}

func (s *Server) handleArtwork(w http.ResponseWriter, r *http.Request) {
	data, err := s.artwork.Current(r.Context())
	if errors.Is(err, artwork.ErrNoArtwork) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Warn("Failed to serve artwork", zap.Error(err))
		http.Error(w, "artwork unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.hub.Document()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc.HTML))
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name, err := commands.Parse(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := s.invoke(r.Context(), name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// showNowPlaying answers with what was presented: a notice or the document link
	if name == domain.CommandShowNowPlaying {
		if outcome, ok := s.hub.Outcome(); ok {
			s.writeJSON(w, outcome)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) invoke(ctx context.Context, name domain.CommandName) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commandTimeout)
	defer cancel()

	if err := s.invoker.Invoke(ctx, name); err != nil {
		s.logger.Warn("Command failed", zap.String("command", string(name)), zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Upgrade error", zap.Error(err))
		return
	}

	conn.SetReadLimit(maxReadSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c := s.connect(conn)
	defer s.disconnect(c)

	if view, ok := s.panel.Latest(); ok {
		s.hub.send(c, panelMessage(view))
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("Read error", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.hub.send(c, Message{Type: MessageNotice, Message: "malformed message"})
			continue
		}

		name, err := commands.Parse(msg.Command)
		if err != nil {
			s.hub.send(c, Message{Type: MessageNotice, Message: err.Error()})
			continue
		}
		if err := s.invoke(r.Context(), name); err != nil {
			s.hub.send(c, Message{Type: MessageNotice, Message: err.Error()})
		}
	}
}

// checkOrigin accepts same-host pages, local pages and clients without an Origin
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("Invalid origin", zap.String("origin", origin), zap.Error(err))
		return false
	}

	if originURL.Host == r.Host {
		return true
	}

	switch originURL.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}

	s.logger.Warn("Rejected WebSocket connection", zap.String("origin", origin))
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

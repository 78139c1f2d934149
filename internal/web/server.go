/*
   BoldBriefing - autonomous news briefing agent
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package web serves the operator dashboard: a JSON API, a websocket event
// stream and the static front end.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"Unbewohnte/BoldBriefing/internal/agent"
	"Unbewohnte/BoldBriefing/internal/article"
	"Unbewohnte/BoldBriefing/internal/feed"
	"Unbewohnte/BoldBriefing/internal/journal"
)

type Config struct {
	Host      string
	Port      uint16
	Username  string
	Password  string
	JWTSecret string
	// StaticDir is served at the root when set.
	StaticDir string
	Logger    *slog.Logger
}

// Controller is the slice of the agent the dashboard drives.
type Controller interface {
	Snapshot() agent.State
	SetAutopilot(on bool)
	ToggleRegion(region article.Region) bool
	Trigger() error
	Subscribe(fn func(agent.Event)) (cancel func())
}

type AccountController interface {
	Handle() string
	IsConnected() bool
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// BriefLister is the archive used for spreadsheet downloads.
type BriefLister interface {
	ListBriefs(ctx context.Context, limit uint64) ([]article.Brief, error)
}

type Deps struct {
	Agent   Controller
	Feed    *feed.Store
	Journal *journal.Journal
	Account AccountController
	// Archive is optional. Without it downloads export the live feed.
	Archive BriefLister
	// Hub is optional and lets other components publish events.
	Hub *Hub
}

type Server struct {
	conf     Config
	deps     Deps
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   *mux.Router
	srv      *http.Server
	unsub    func()
}

func New(conf Config, deps Deps) *Server {
	if conf.Logger == nil {
		conf.Logger = slog.New(slog.DiscardHandler)
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewHub(conf.Logger)
	}

	s := &Server{
		conf:   conf,
		deps:   deps,
		hub:    hub,
		logger: conf.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	if deps.Journal != nil {
		deps.Journal.AddSink(journal.SinkFunc(func(e journal.Entry) {
			hub.Publish(Message{Type: "log", Data: e})
		}))
	}
	if deps.Agent != nil {
		s.unsub = deps.Agent.Subscribe(func(ev agent.Event) {
			hub.Publish(eventMessage(ev))
		})
	}

	s.router = s.routes()
	return s
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	r.Handle("/ws", s.requireAuth(http.HandlerFunc(s.handleWebSocket)))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireAuth)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/feed", s.handleFeed).Methods(http.MethodGet)
	api.HandleFunc("/feed/{id}", s.handleBrief).Methods(http.MethodGet)
	api.HandleFunc("/feed/{id}/share", s.handleShare).Methods(http.MethodGet)
	api.HandleFunc("/logs", s.handleLogs).Methods(http.MethodGet)
	api.HandleFunc("/autopilot", s.handleAutopilot).Methods(http.MethodPost)
	api.HandleFunc("/regions/{region}/toggle", s.handleToggleRegion).Methods(http.MethodPost)
	api.HandleFunc("/cycle", s.handleCycle).Methods(http.MethodPost)
	api.HandleFunc("/account", s.handleAccount).Methods(http.MethodGet)
	api.HandleFunc("/account/connect", s.handleConnect).Methods(http.MethodPost)
	api.HandleFunc("/account/disconnect", s.handleDisconnect).Methods(http.MethodPost)

	r.Handle("/download/xlsx", s.requireAuth(http.HandlerFunc(s.handleDownloadXLSX))).Methods(http.MethodGet)

	if s.conf.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.conf.StaticDir)))
	}
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.conf.Host, s.conf.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info("Web server started", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Web server error", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting requests, drops websocket clients and waits for
// in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.unsub != nil {
		s.unsub()
	}
	s.hub.closeAll()
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade error", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Message, clientBuffer),
	}
	s.hub.add(c)

	go c.writePump()
	go c.readPump(s.hub)
}

func eventMessage(ev agent.Event) Message {
	switch ev.Type {
	case agent.EventStage:
		return Message{Type: string(ev.Type), Data: map[string]any{"stage": ev.Stage}}
	case agent.EventBrief:
		return Message{Type: string(ev.Type), Data: ev.Brief}
	case agent.EventAutopilot:
		return Message{Type: string(ev.Type), Data: map[string]any{"autopilot": ev.Autopilot}}
	case agent.EventRegions:
		regions := ev.Regions
		if regions == nil {
			regions = []article.Region{}
		}
		return Message{Type: string(ev.Type), Data: map[string]any{"regions": regions}}
	default:
		return Message{Type: string(ev.Type), Data: ev}
	}
}

// AccountMessage is the live update sent after a connect or disconnect.
func AccountMessage(handle string, connected bool) Message {
	return Message{Type: "account", Data: AccountStatus{Handle: handle, Connected: connected}}
}

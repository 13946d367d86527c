package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/search"
	"github.com/ziadkadry99/blognav/internal/taxonomy"
	"github.com/ziadkadry99/blognav/internal/tree"
)

// Config holds server configuration.
type Config struct {
	Port           int
	SiteDir        string   // built site served at /
	AllowAll       bool     // allow all CORS origins (dev mode)
	AllowedOrigins []string // extra CORS origins
	NoResultsText  string
	Debounce       time.Duration // live search quiet period
	FrameInterval  time.Duration
	TreeStateKey   string
}

// Deps are the collaborators the server exposes over HTTP. Posts and Store
// are optional; without them the taxonomy and tree endpoints serve empty
// data.
type Deps struct {
	Index  *content.Index
	Engine *search.Engine
	Posts  []content.Post
	Store  tree.KeyValueStore
	Logger *slog.Logger
}

// Server is the blog preview server: the built site plus the search,
// taxonomy and tree-state APIs.
type Server struct {
	cfg        Config
	index      *content.Index
	engine     *search.Engine
	store      tree.KeyValueStore
	pages      []taxonomy.Page
	categories *taxonomy.CategoryNode
	treeMu     sync.Mutex // serialises read-modify-write of the tree state
	log        *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over deps.
func New(cfg Config, deps Deps) *Server {
	if deps.Engine == nil {
		deps.Engine = search.NewEngine(search.Options{})
	}
	if deps.Index == nil {
		deps.Index = content.NewStaticIndex(nil)
	}
	if deps.Store == nil {
		deps.Store = tree.NewMemoryStore()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.TreeStateKey == "" {
		cfg.TreeStateKey = tree.DefaultStateKey
	}

	s := &Server{
		cfg:        cfg,
		index:      deps.Index,
		engine:     deps.Engine,
		store:      deps.Store,
		pages:      taxonomy.All(deps.Posts),
		categories: taxonomy.BuildCategoryTree(deps.Posts),
		log:        deps.Logger,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   append([]string{"http://localhost:*", "http://127.0.0.1:*"}, s.cfg.AllowedOrigins...),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", s.handleHealth)

	// The websocket connection outlives any request timeout.
	r.Get("/ws/search", s.handleSearchSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Route("/api", func(r chi.Router) {
			r.Get("/search", s.handleSearch)
			r.Get("/search/panel", s.handleSearchPanel)
			r.Get("/taxonomy", s.handleTaxonomy)
			r.Get("/tree", s.handleTree)
			r.Post("/tree/toggle", s.handleTreeToggle)
			r.Post("/tree/expand-all", s.handleTreeExpandAll)
		})
	})

	if s.cfg.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("blognav server listening", "addr", addr, "site_dir", s.cfg.SiteDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

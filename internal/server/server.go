package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nivedm/datasentry/internal/cache"
	"github.com/nivedm/datasentry/internal/config"
	"github.com/nivedm/datasentry/internal/dataset"
	"github.com/nivedm/datasentry/internal/deid"
	"github.com/nivedm/datasentry/internal/events"
	"github.com/nivedm/datasentry/internal/logger"
	"github.com/nivedm/datasentry/internal/pii"
	"github.com/nivedm/datasentry/internal/store"
)

// Server is the DataSentry HTTP API server.
type Server struct {
	config  *config.Config
	logger  *logger.Logger
	router  *mux.Router
	server  *http.Server
	hub     *events.Hub
	cache   *cache.ScanCache
	store   *store.Store
	limiter *RateLimiter

	mu       sync.Mutex
	sessions map[string]*deid.Session
}

// New creates a new server instance. Cache and store backends are only
// connected when enabled in the configuration.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	hub := events.NewHub(&cfg.Events, log.WithComponent("events").Logger)

	server := &Server{
		config:   cfg,
		logger:   log.WithComponent("server"),
		router:   mux.NewRouter(),
		hub:      hub,
		sessions: make(map[string]*deid.Session),
	}

	if cfg.Cache.Enabled {
		scanCache, err := cache.NewScanCache(&cfg.Cache, log.WithComponent("cache").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create scan cache: %w", err)
		}
		server.cache = scanCache
	}

	if cfg.Store.Enabled {
		runStore, err := store.NewStore(&cfg.Store, log.WithComponent("store").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}
		server.store = runStore
	}

	if cfg.RateLimit.Enabled {
		server.limiter = NewRateLimiter(cfg.RateLimit.GlobalRPS, cfg.RateLimit.ClientRPS, cfg.RateLimit.Burst)
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	s.router.HandleFunc("/ws", s.hub.HandleWebSocket).Methods("GET")

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/detect", s.handleDetect).Methods("POST")
	api.HandleFunc("/deidentify", s.handleDeidentify).Methods("POST")
	api.HandleFunc("/datasets", s.handleDataset).Methods("POST")
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")
	api.HandleFunc("/cache/stats", s.handleCacheStats).Methods("GET")
}

// Start starts the HTTP server and the event hub.
func (s *Server) Start() error {
	s.logger.Info("Starting DataSentry server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("privacy_enabled", s.config.Privacy.Enabled),
		zap.Bool("cache_enabled", s.config.Cache.Enabled),
		zap.Bool("store_enabled", s.config.Store.Enabled),
	)

	go s.hub.Run()
	s.hub.Publish(events.EventTypeSystem, events.SystemEvent{Status: "started"})

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server and closes backends.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping DataSentry server")

	if s.cache != nil {
		s.cache.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Hub returns the event hub for broadcasting.
func (s *Server) Hub() *events.Hub {
	return s.hub
}

// enabledTypes resolves the configured detector list. "all" or an empty
// list enables every type.
func (s *Server) enabledTypes() []pii.Type {
	var types []pii.Type
	for _, name := range s.config.Privacy.Detectors {
		if name == "all" {
			return nil
		}
		if t, ok := pii.ParseType(name); ok {
			types = append(types, t)
		} else {
			s.logger.Warn("Unknown detector in configuration", zap.String("detector", name))
		}
	}
	return types
}

// session returns the de-identification session for a run ID, creating it
// on first use. An empty ID gets a fresh one-shot session.
func (s *Server) session(runID string) *deid.Session {
	if runID == "" {
		return deid.NewSession()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[runID]
	if !ok {
		sess = deid.NewSession()
		s.sessions[runID] = sess
	}
	return sess
}

// scanner adapts the optional Redis cache to the dataset processor.
func (s *Server) scanner() dataset.Scanner {
	if s.cache == nil {
		return nil
	}
	return s.cache
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prachar-hq/apiserver/config"
	"github.com/prachar-hq/apiserver/internal/archive"
	"github.com/prachar-hq/apiserver/internal/db"
	"github.com/prachar-hq/apiserver/internal/events"
	"github.com/prachar-hq/apiserver/internal/handlers"
	"github.com/prachar-hq/apiserver/internal/logger"
	"github.com/prachar-hq/apiserver/internal/services"
	"github.com/prachar-hq/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	dbClient   *db.Client
	publisher  *events.Publisher
	log        zerolog.Logger
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := logger.New("prachar-apiserver")

	dbClient := db.New(cfg.Mongo)
	database, err := dbClient.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}

	publisher, err := newPublisher(ctx, cfg.Events, log)
	if err != nil {
		return nil, err
	}

	archiver, err := newArchiver(ctx, cfg.Archive, log)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(database)
	surveyRepo := store.NewSurveyRepository(database)

	authService := services.NewAuthService(userRepo, log)
	surveyService := services.NewSurveyService(surveyRepo, publisher, archiver, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/health", handlers.Health(dbClient))
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authService)
	})
	router.Route("/surveys", func(r chi.Router) {
		handlers.SurveyRouter(r, surveyService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		dbClient:   dbClient,
		publisher:  publisher,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.dbClient != nil {
		_ = s.dbClient.Close(ctx)
	}
	return s.httpServer.Shutdown(ctx)
}

func newPublisher(ctx context.Context, cfg config.EventsConfig, log zerolog.Logger) (*events.Publisher, error) {
	backend, err := events.NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init events backend: %w", err)
	}
	return events.NewPublisher(backend, log), nil
}

func newArchiver(ctx context.Context, cfg config.ArchiveConfig, log zerolog.Logger) (*archive.Archiver, error) {
	backend, err := archive.NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init archive backend: %w", err)
	}

	archiver := archive.NewArchiver(backend, log)
	if err := archiver.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure archive bucket: %w", err)
	}
	return archiver, nil
}

// Package server wires the configured store, services and handlers into an
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"receitas-api/internal/auth"
	"receitas-api/internal/cache"
	"receitas-api/internal/config"
	"receitas-api/internal/handler"
	"receitas-api/internal/middleware"
	"receitas-api/internal/repository"
	"receitas-api/internal/repository/memory"
	"receitas-api/internal/repository/sqlite"
	"receitas-api/internal/service"
	"receitas-api/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	store  repository.Store
	cache  cache.Cache
	http   *http.Server
}

// New builds a fully wired server from the configuration. It opens the
// store, runs migrations where applicable and connects the optional Redis
// cache before assembling the routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		store.Close()
		return nil, err
	}

	photos, err := storage.NewPhotoStore(cfg.StorageDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open photo store: %w", err)
	}

	var categoryCache cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, category cache disabled",
				slog.String("error", err.Error()))
		} else {
			categoryCache = rc
		}
	}

	authService := service.NewAuthService(store, store, tokens, auth.NewPasswordService(), logger)
	categoryService := service.NewCategoryService(store, categoryCache, logger)
	recipeService := service.NewRecipeService(store, store, logger)

	// Drop any category list cached by a previous deploy; migrations may
	// have changed the seed data.
	if err := categoryService.InvalidateCache(context.Background()); err != nil {
		logger.Warn("category cache invalidation failed", slog.String("error", err.Error()))
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		cache:  categoryCache,
	}
	s.http = &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: s.routes(
			handler.NewAuthHandler(authService, logger),
			handler.NewCategoryHandler(categoryService, logger),
			handler.NewRecipeHandler(recipeService, photos, logger),
			tokens,
			photos,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	case config.StoreSQLite:
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func (s *Server) routes(
	authHandler *handler.AuthHandler,
	categoryHandler *handler.CategoryHandler,
	recipeHandler *handler.RecipeHandler,
	tokens *auth.TokenService,
	photos *storage.PhotoStore,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, s.store))

			r.Get("/categorias", categoryHandler.HandleList)
			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/user", authHandler.HandleMe)
			r.Patch("/user", authHandler.HandleUpdateProfile)

			r.Route("/receitas", func(r chi.Router) {
				r.Get("/", recipeHandler.HandleList)
				r.Post("/", recipeHandler.HandleCreate)
				r.Get("/{id}", recipeHandler.HandleGet)
				r.Put("/{id}", recipeHandler.HandleUpdate)
				r.Delete("/{id}", recipeHandler.HandleDelete)
			})
		})
	})

	// Uploaded photos are public, matching the paths stored on recipes.
	fileServer := http.StripPrefix("/storage/", http.FileServer(http.Dir(photos.Root())))
	r.Get("/storage/*", fileServer.ServeHTTP)

	return r
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.closeResources()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)
	s.closeResources()
	return err
}

func (s *Server) closeResources() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("closing store", slog.String("error", err.Error()))
	}
	if s.cache != nil {
		if closer, ok := s.cache.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				s.logger.Error("closing cache", slog.String("error", err.Error()))
			}
		}
	}
}

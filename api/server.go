package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/essay-board-backend/config"
	"github.com/rpupo63/essay-board-backend/database"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c map[string]string) (Server, error) {
	if database.EssayRepo() == nil {
		return Server{}, errors.New("essay store is not configured")
	}

	port := config.GetString(c, "PORT", "5000")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(database, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	useMiddleware(chiRouter, config.GetStrings(router.config, "ACCEPTED_ORIGINS", []string{"*"}))

	handlers := initializeHandlers(database, router)
	setupRoutes(chiRouter, handlers)

	return chiRouter
}

// useMiddleware installs the request pipeline. The access log and metrics sit
// outside the panic recoverer so a recovered panic is still logged and counted
// as a 500.
func useMiddleware(r chi.Router, acceptedOrigins []string) {
	r.Use(middleware.RequestID)
	r.Use(HTTPLoggingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(LogInternalServerErrors)
	r.Use(corsMiddleware(acceptedOrigins))
}

// Start serves until the server is shut down. A clean shutdown returns nil.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) error {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down the server")
		return err
	}
	log.Info().Msg("HttpServer gracefully shut down")
	return nil
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/essay-board-backend/api"
	"github.com/rpupo63/essay-board-backend/config"
	"github.com/rpupo63/essay-board-backend/database"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	c, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config file")
	}
	setupLogger(c)

	log.Info().Msg("Initializing app...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	currentDB, err := database.Open(ctx, storeOptions(c))
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening essay store")
	}
	defer func() {
		if err := currentDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing essay store")
		}
	}()

	server, err := api.NewServer(currentDB, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	shutdownTimeout := time.Duration(config.GetInt(c, "SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Closing server")
		return server.ShutdownGracefully(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
}

// setupLogger configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(config.GetString(c, "LOG_FORMAT", "console"), "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func storeOptions(c map[string]string) database.Options {
	return database.Options{
		Driver: config.GetString(c, "STORE_DRIVER", database.DriverFile),
		Path:   config.GetString(c, "DB_PATH", "db.json"),
		S3: database.S3Options{
			Bucket:   config.GetString(c, "S3_BUCKET", ""),
			Key:      config.GetString(c, "S3_KEY", "db.json"),
			Region:   config.GetString(c, "S3_REGION", ""),
			Endpoint: config.GetString(c, "S3_ENDPOINT", ""),
		},
		SQLitePath:  config.GetString(c, "SQLITE_PATH", "essays.db"),
		PostgresDSN: config.GetString(c, "DATABASE_URL", ""),
	}
}

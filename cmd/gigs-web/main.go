package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dbell559/gigsinbrighton/pkg/config"
	"github.com/dbell559/gigsinbrighton/pkg/interfaces"
	"github.com/dbell559/gigsinbrighton/pkg/snapshot"
)

var cli struct {
	Config string `help:"Path to JSON config file." default:"config.json"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("gigs-web"),
		kong.Description("Serve the upcoming gigs table over the published snapshot."),
	)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	store := snapshot.NewStore(cfg.Snapshot.Path)
	handler := interfaces.NewGigHandler(store, logger)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/dbversion-api/internal/config"
	"github.com/01moynul/dbversion-api/internal/database"
	"github.com/01moynul/dbversion-api/internal/handlers"
	"github.com/01moynul/dbversion-api/internal/logger"
	"github.com/01moynul/dbversion-api/internal/metrics"
	"github.com/01moynul/dbversion-api/internal/routes"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	envErr := godotenv.Load()

	// 1. --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", os.Stderr)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	l := logger.Init(cfg.LogLevel, os.Stdout)
	if envErr != nil {
		l.Warn().Msg("Could not find or load .env file. Relying on system environment variables.")
	}
	if cfg.UsesDefaultPassword() {
		l.Warn().Msg("DB_PASSWORD is not set; using the built-in default credential")
	}
	l.Debug().Strs("defaulted", cfg.Defaulted()).Msg("Configuration resolved")

	if err := database.SetDriverLogger(l); err != nil {
		l.Warn().Err(err).Msg("Could not route MySQL driver logs")
	}

	// 2. --- Application Setup ---
	m := metrics.New()
	app := &handlers.Handlers{
		DB: database.NewConnector(cfg.DB, m),
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(app, cfg, m, l)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 3. --- Start Server ---
	go func() {
		l.Info().Str("addr", srv.Addr).Str("db_host", cfg.DB.Host).Msg("Starting DB version API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	l.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Fatal().Err(err).Msg("Server shutdown failed")
	}
	l.Info().Msg("Server gracefully stopped.")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/config"
	"github.com/TORRES240325/panel-socios-final/internal/infra"
	"github.com/TORRES240325/panel-socios-final/internal/repository"
	"github.com/TORRES240325/panel-socios-final/internal/router"
	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/rs/zerolog/log"
)

// @title                      Panel de socios API
// @version                    1.0
// @description                Back-office de socios, catalogo y licencias.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logCloser := infra.SetupLogger(cfg)
	defer logCloser.Close()

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := infra.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare schema")
	}

	seed, err := service.SeedFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seed configuration")
	}
	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
	_, err = service.EnsureDefaultAdmin(bootCtx, repository.NewUsuarioRepository(db), seed, cfg.BcryptCost)
	bootCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed default admin")
	}
	if cfg.UsesDefaultSeedSecret() {
		log.Warn().Str("username", cfg.SeedAdminUsername).
			Msg("SEED_ADMIN_LOGIN_KEY uses the built-in default; set it before exposing the panel")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL, cfg.DBTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("panel de socios listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

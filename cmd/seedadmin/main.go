// Command seedadmin prepares the schema and creates the bootstrap admin
// when the members table is empty. Safe to run repeatedly.
// Uso: go run ./cmd/seedadmin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/TORRES240325/panel-socios-final/internal/config"
	"github.com/TORRES240325/panel-socios-final/internal/infra"
	"github.com/TORRES240325/panel-socios-final/internal/repository"
	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/rs/zerolog/log"
)

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
	defer cancel()
	created, err := service.EnsureDefaultAdmin(ctx, repository.NewUsuarioRepository(db), seed, cfg.BcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
	if created {
		fmt.Printf("Usuario administrador '%s' creado\n", seed.Username)
		return
	}
	fmt.Println("La tabla usuarios ya tiene registros; no se creo ningun administrador")
}

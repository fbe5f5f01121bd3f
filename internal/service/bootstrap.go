package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/TORRES240325/panel-socios-final/internal/config"
	"github.com/TORRES240325/panel-socios-final/internal/model"
	"github.com/TORRES240325/panel-socios-final/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin is the administrator inserted into an empty usuarios table.
type SeedAdmin struct {
	Username string
	LoginKey string
	Saldo    decimal.Decimal
}

// EnsureDefaultAdmin inserts the seed administrator only when usuarios is empty,
// so it is safe on every startup. It reports whether a row was inserted.
func EnsureDefaultAdmin(ctx context.Context, repo repository.UsuarioRepository, seed SeedAdmin, bcryptCost int) (bool, error) {
	if err := checkLoginKey(seed.LoginKey); err != nil {
		return false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.LoginKey), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash login_key: %w", err)
	}

	creado := false
	err = runTx(ctx, repo.DB(), func(tx *gorm.DB) error {
		n, err := repo.CountTx(tx)
		if err != nil {
			return fmt.Errorf("contar usuarios: %w", err)
		}
		if n > 0 {
			return nil
		}
		admin := &model.Usuario{
			Username: seed.Username,
			LoginKey: string(hash),
			Saldo:    seed.Saldo,
			EsAdmin:  true,
		}
		if err := repo.CreateTx(tx, admin); err != nil {
			return err
		}
		creado = true
		return nil
	})
	// another instance seeded between our count and insert
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("crear administrador inicial: %w", err)
	}

	if creado {
		log.Info().Str("username", seed.Username).Msg("usuario administrador inicial creado")
	} else {
		log.Info().Msg("base de datos verificada: ya existen usuarios")
	}
	return creado, nil
}

// SeedFromConfig builds the seed administrator from SEED_ADMIN_* settings.
func SeedFromConfig(cfg *config.Config) (SeedAdmin, error) {
	saldo, err := decimal.NewFromString(cfg.SeedAdminSaldo)
	if err != nil {
		return SeedAdmin{}, fmt.Errorf("SEED_ADMIN_SALDO: %w", err)
	}
	return SeedAdmin{
		Username: cfg.SeedAdminUsername,
		LoginKey: cfg.SeedAdminLoginKey,
		Saldo:    saldo,
	}, nil
}

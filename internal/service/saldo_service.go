package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/model"
	"github.com/TORRES240325/panel-socios-final/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxMonto keeps amounts inside the decimal(12,2) saldo column.
var maxMonto = decimal.New(1, 10)

// SaldoService adjusts member balances. There is no floor: a debit larger than
// the current saldo leaves it negative.
type SaldoService interface {
	AjustarSaldo(ctx context.Context, usuarioID uuid.UUID, monto string) (*dto.SaldoResponse, error)
}

type saldoService struct {
	repo repository.UsuarioRepository
}

func NewSaldoService(repo repository.UsuarioRepository) SaldoService {
	return &saldoService{repo: repo}
}

// AjustarSaldo applies a signed delta with a single UPDATE ... saldo = saldo + ?,
// so concurrent adjustments cannot lose each other's writes.
func (s *saldoService) AjustarSaldo(ctx context.Context, usuarioID uuid.UUID, monto string) (*dto.SaldoResponse, error) {
	delta, err := ParseMonto(monto)
	if err != nil {
		return nil, err
	}

	var u *model.Usuario
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.AjustarSaldoTx(tx, usuarioID, delta)
		if err != nil {
			return fmt.Errorf("ajustar saldo: %w", err)
		}
		if n == 0 {
			return newError(KindNotFound, "usuario no encontrado", nil)
		}
		u, err = s.repo.FindByIDTx(tx, usuarioID)
		if err != nil {
			return notFoundOr(err, "usuario no encontrado", "leer saldo")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := log.Info()
	if u.Saldo.IsNegative() {
		ev = log.Warn()
	}
	ev.Str("usuario_id", u.ID.String()).
		Str("monto", delta.StringFixed(2)).
		Str("saldo", u.Saldo.StringFixed(2)).
		Msg("saldo ajustado")

	return &dto.SaldoResponse{
		UsuarioID: u.ID.String(),
		Username:  u.Username,
		Saldo:     u.Saldo.Round(2),
	}, nil
}

// ParseMonto parses a signed decimal amount with at most two fractional digits.
// Anything else (empty, non-numeric, NaN, Inf, out of range) is InvalidAmount.
func ParseMonto(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, newError(KindInvalidAmount, "monto vacio", nil)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, newError(KindInvalidAmount, fmt.Sprintf("monto no valido: %q", raw), err)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, newError(KindInvalidAmount, "el monto admite como maximo 2 decimales", nil)
	}
	if d.Abs().GreaterThanOrEqual(maxMonto) {
		return decimal.Zero, newError(KindInvalidAmount, "monto fuera de rango", nil)
	}
	return d, nil
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username"  validate:"required,min=1,max=50"`
	LoginKey string `json:"login_key" validate:"required,min=1,max=72"`
}

type CrearUsuarioRequest struct {
	Username   string `json:"username"    validate:"required,min=1,max=50"`
	LoginKey   string `json:"login_key"   validate:"required,min=4,max=72"`
	TelegramID *int64 `json:"telegram_id"`
	// Saldo is a decimal string; empty means 0.00
	Saldo   string `json:"saldo"`
	EsAdmin bool   `json:"es_admin"`
}

// AjustarSaldoRequest carries a signed amount as text so malformed or
// non-finite input is reported as an invalid amount, not a JSON error.
type AjustarSaldoRequest struct {
	Monto string `json:"monto" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID            string          `json:"id"`
	TelegramID    *int64          `json:"telegram_id"`
	Username      string          `json:"username"`
	Saldo         decimal.Decimal `json:"saldo"`
	EsAdmin       bool            `json:"es_admin"`
	FechaRegistro string          `json:"fecha_registro"`
}

type SaldoResponse struct {
	UsuarioID string          `json:"usuario_id"`
	Username  string          `json:"username"`
	Saldo     decimal.Decimal `json:"saldo"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // seconds
	User        UsuarioResponse `json:"user"`
}

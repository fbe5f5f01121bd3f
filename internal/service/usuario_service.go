package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/config"
	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/model"
	"github.com/TORRES240325/panel-socios-final/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UsuarioService interface {
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
}

type usuarioService struct {
	repo       repository.UsuarioRepository
	bcryptCost int
}

func NewUsuarioService(repo repository.UsuarioRepository, bcryptCost int) UsuarioService {
	return &usuarioService{repo: repo, bcryptCost: bcryptCost}
}

func (s *usuarioService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	saldo := decimal.Zero
	if req.Saldo != "" {
		d, err := ParseMonto(req.Saldo)
		if err != nil {
			return nil, err
		}
		saldo = d
	}

	if err := checkLoginKey(req.LoginKey); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, newError(KindDuplicateUsername, "el nombre de usuario ya existe", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.LoginKey), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash login_key: %w", err)
	}
	u := &model.Usuario{
		Username:   req.Username,
		LoginKey:   string(hash),
		TelegramID: req.TelegramID,
		Saldo:      saldo,
		EsAdmin:    req.EsAdmin,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(KindDuplicateUsername, "el nombre de usuario ya existe", err)
		}
		return nil, fmt.Errorf("crear usuario: %w", err)
	}

	log.Info().Str("usuario_id", u.ID.String()).Str("username", u.Username).Bool("es_admin", u.EsAdmin).Msg("socio registrado")
	resp := usuarioToResponse(*u)
	return &resp, nil
}

func (s *usuarioService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i, u := range users {
		resp[i] = usuarioToResponse(u)
	}
	return resp, nil
}

func (s *usuarioService) ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "usuario no encontrado", "buscar usuario")
	}
	resp := usuarioToResponse(*u)
	return &resp, nil
}

// checkLoginKey rejects secrets bcrypt cannot hash. The DTO tag counts runes,
// this counts bytes.
func checkLoginKey(key string) error {
	if len(key) > config.MaxLoginKeyBytes {
		return newError(KindInvalidInput, fmt.Sprintf("login_key excede %d bytes", config.MaxLoginKeyBytes), nil)
	}
	return nil
}

func usuarioToResponse(u model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:            u.ID.String(),
		TelegramID:    u.TelegramID,
		Username:      u.Username,
		Saldo:         u.Saldo.Round(2),
		EsAdmin:       u.EsAdmin,
		FechaRegistro: u.FechaRegistro.Format(time.RFC3339),
	}
}

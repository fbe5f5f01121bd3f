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

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues and revokes administrator session tokens. Only members
// with es_admin=true may log in to the panel.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo     repository.UsuarioRepository
	sesiones repository.SesionRepository
	cfg      *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, sesiones repository.SesionRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, sesiones: sesiones, cfg: cfg}
}

var errCredenciales = newError(KindUnauthorized, "credenciales incorrectas o no eres administrador", nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errCredenciales
	}
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.LoginKey), []byte(req.LoginKey)); err != nil {
		return nil, errCredenciales
	}
	if !user.EsAdmin {
		log.Warn().Str("username", user.Username).Msg("login rechazado: no es administrador")
		return nil, errCredenciales
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.generateToken(user, ttl)
	if err != nil {
		return nil, fmt.Errorf("firmar token: %w", err)
	}

	log.Info().Str("usuario_id", user.ID.String()).Msg("inicio de sesion")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
		User:        usuarioToResponse(*user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return newError(KindUnauthorized, "token sin identificador", nil)
	}
	if err := s.sesiones.Revocar(ctx, jti, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("revocar sesion: %w", err)
	}
	return nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":      uuid.NewString(),
		"user_id":  user.ID.String(),
		"username": user.Username,
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

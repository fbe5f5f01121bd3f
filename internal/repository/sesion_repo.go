package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "sesion:revocada:"

// SesionRepository records revoked admin tokens by their jti until they expire.
type SesionRepository interface {
	Revocar(ctx context.Context, jti string, ttl time.Duration) error
	EstaRevocada(ctx context.Context, jti string) (bool, error)
}

type sesionRepo struct{ rdb *redis.Client }

func NewSesionRepository(rdb *redis.Client) SesionRepository { return &sesionRepo{rdb: rdb} }

func (r *sesionRepo) Revocar(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}
	return r.rdb.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

func (r *sesionRepo) EstaRevocada(ctx context.Context, jti string) (bool, error) {
	err := r.rdb.Get(ctx, denylistPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

package repository

import (
	"context"

	"github.com/TORRES240325/panel-socios-final/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)

	// Used inside transactions: callers pass the tx instance
	CreateTx(tx *gorm.DB, u *model.Usuario) error
	CountTx(tx *gorm.DB) (int64, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error)
	// AjustarSaldoTx adds delta to saldo in a single statement and reports the
	// number of rows touched (0 = member absent).
	AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Order("fecha_registro ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) CreateTx(tx *gorm.DB, u *model.Usuario) error {
	return tx.Create(u).Error
}

func (r *usuarioRepo) CountTx(tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Model(&model.Usuario{}).Count(&n).Error
	return n, err
}

func (r *usuarioRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.Where("id = ?", id).First(&u).Error
	return &u, err
}

// ROUND keeps SQLite, which stores fractional NUMERIC values as REAL, at cent precision.
func (r *usuarioRepo) AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Usuario{}).Where("id = ?", id).
		Update("saldo", gorm.Expr("ROUND(saldo + ?, 2)", delta))
	return res.RowsAffected, res.Error
}

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

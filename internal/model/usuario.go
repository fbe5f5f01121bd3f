package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Usuario is a member account ("socio"). Saldo has no floor: negative balances are accepted.
// LoginKey holds the bcrypt hash of the member's login secret.
type Usuario struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TelegramID    *int64          `gorm:"uniqueIndex"`
	Username      string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	LoginKey      string          `gorm:"type:varchar(100);not null"`
	Saldo         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	EsAdmin       bool            `gorm:"not null;default:false"`
	FechaRegistro time.Time       `gorm:"autoCreateTime"`
}

func (Usuario) TableName() string { return "usuarios" }

// BeforeCreate assigns the primary key in the application so every driver behaves the same.
func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

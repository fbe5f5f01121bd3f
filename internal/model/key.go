package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KeyEstadoAvailable = "available"
	KeyEstadoUsed      = "used"
)

// Key is a single licence belonging to one product. Licencia is unique across
// all products. Estado moves available → used exactly once and never back.
// Producto only exists to emit the foreign key constraint; it is never preloaded
// and Producto has no back-reference. Deleting a product requires deleting its
// keys first (RESTRICT).
type Key struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Licencia   string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Estado     string     `gorm:"type:varchar(20);not null;default:'available'"`
	FechaUso   *time.Time // set when the key is consumed

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:RESTRICT"`
}

func (Key) TableName() string { return "keys" }

func (k *Key) BeforeCreate(_ *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	if k.Estado == "" {
		k.Estado = KeyEstadoAvailable
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog entry sold as licence keys. Stock is never stored:
// it is always derived by counting available Keys.
type Producto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre        string          `gorm:"type:varchar(100);index;not null"`
	Categoria     string          `gorm:"type:varchar(50);not null"`
	Precio        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descripcion   *string         `gorm:"type:varchar(255)"`
	FechaCreacion time.Time       `gorm:"autoCreateTime"`
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

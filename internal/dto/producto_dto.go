package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Precio is mandatory but carries no sign check: negative prices are accepted
// as in the legacy panel. Presence is enforced by the service.
type CrearProductoRequest struct {
	Nombre      string           `json:"nombre"      validate:"required,min=1,max=100"`
	Categoria   string           `json:"categoria"   validate:"required,min=1,max=50"`
	Precio      *decimal.Decimal `json:"precio"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=255"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,min=1,max=100"`
	Categoria   *string          `json:"categoria"   validate:"omitempty,min=1,max=50"`
	Precio      *decimal.Decimal `json:"precio"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=255"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"nombre"`
	Categoria       string          `json:"categoria"`
	Precio          decimal.Decimal `json:"precio"`
	Descripcion     *string         `json:"descripcion"`
	FechaCreacion   string          `json:"fecha_creacion"`
	StockDisponible int64           `json:"stock_disponible"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

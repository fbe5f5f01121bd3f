package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/model"
	"github.com/TORRES240325/panel-socios-final/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductoService defines the business logic contract for the catalog.
// Deletion lives in InventarioService because it cascades to the keys.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	keys repository.KeyRepository
}

func NewProductoService(repo repository.ProductoRepository, keys repository.KeyRepository) ProductoService {
	return &productoService{repo: repo, keys: keys}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.Precio == nil {
		return nil, newError(KindInvalidAmount, "el precio es obligatorio", nil)
	}
	if err := checkPrecio(*req.Precio); err != nil {
		return nil, err
	}
	p := &model.Producto{
		Nombre:      req.Nombre,
		Categoria:   req.Categoria,
		Precio:      *req.Precio,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	log.Info().Str("producto_id", p.ID.String()).Str("nombre", p.Nombre).Msg("producto creado")
	resp := productoToResponse(*p, 0)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto no encontrado", "buscar producto")
	}
	stock, err := s.keys.CountByEstado(ctx, id, model.KeyEstadoAvailable)
	if err != nil {
		return nil, fmt.Errorf("contar keys: %w", err)
	}
	resp := productoToResponse(*p, stock)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	ids := make([]uuid.UUID, len(productos))
	for i, p := range productos {
		ids[i] = p.ID
	}
	stock, err := s.keys.CountDisponibles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("contar keys: %w", err)
	}

	data := make([]dto.ProductoResponse, len(productos))
	for i, p := range productos {
		data[i] = productoToResponse(p, stock[p.ID])
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto no encontrado", "buscar producto")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Precio != nil {
		if err := checkPrecio(*req.Precio); err != nil {
			return nil, err
		}
		p.Precio = *req.Precio
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	return s.ObtenerPorID(ctx, id)
}

// maxPrecio keeps prices inside the decimal(10,2) precio column.
var maxPrecio = decimal.New(1, 8)

// checkPrecio enforces the column's scale and range. The sign is not checked.
func checkPrecio(d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return newError(KindInvalidAmount, "el precio admite como maximo 2 decimales", nil)
	}
	if d.Abs().GreaterThanOrEqual(maxPrecio) {
		return newError(KindInvalidAmount, "precio fuera de rango", nil)
	}
	return nil
}

func productoToResponse(p model.Producto, stock int64) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		Categoria:       p.Categoria,
		Precio:          p.Precio,
		Descripcion:     p.Descripcion,
		FechaCreacion:   p.FechaCreacion.Format(time.RFC3339),
		StockDisponible: stock,
	}
}

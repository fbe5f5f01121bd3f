package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/model"
	"github.com/TORRES240325/panel-socios-final/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxLicenciaLen = 255

// InventarioService owns the licence-key pool of every product: bulk loading,
// derived stock, consumption and cascade deletion.
type InventarioService interface {
	// AgregarKeys loads one key per non-blank line of raw. All-or-nothing: any
	// duplicate (inside the batch or against existing keys) rejects the batch.
	AgregarKeys(ctx context.Context, productoID uuid.UUID, raw string) (int, error)
	StockDisponible(ctx context.Context, productoID uuid.UUID) (int64, error)
	MarcarUsada(ctx context.Context, keyID uuid.UUID) (*dto.KeyResponse, error)
	EliminarProducto(ctx context.Context, productoID uuid.UUID) error
	ListarKeys(ctx context.Context, productoID uuid.UUID) (*dto.KeysProductoResponse, error)
	ObtenerAlertas(ctx context.Context, umbral int) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	productos repository.ProductoRepository
	keys      repository.KeyRepository
	now       func() time.Time
}

func NewInventarioService(productos repository.ProductoRepository, keys repository.KeyRepository) InventarioService {
	return &inventarioService{productos: productos, keys: keys, now: time.Now}
}

// ── AgregarKeys ───────────────────────────────────────────────────────────────

func (s *inventarioService) AgregarKeys(ctx context.Context, productoID uuid.UUID, raw string) (int, error) {
	licencias := parseLicencias(raw)
	if len(licencias) == 0 {
		return 0, newError(KindInvalidInput, "no se recibieron licencias", nil)
	}
	for _, l := range licencias {
		if utf8.RuneCountInString(l) > maxLicenciaLen {
			return 0, newError(KindInvalidInput,
				fmt.Sprintf("la licencia %.20q... supera %d caracteres", l, maxLicenciaLen), nil)
		}
	}
	if dup := firstDuplicate(licencias); dup != "" {
		return 0, newError(KindDuplicateLicense, fmt.Sprintf("la licencia %q esta repetida en el lote", dup), nil)
	}

	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if _, err := s.productos.FindByIDTx(tx, productoID); err != nil {
			return notFoundOr(err, "producto no encontrado", "buscar producto")
		}

		existentes, err := s.keys.ExistingLicenciasTx(tx, licencias)
		if err != nil {
			return fmt.Errorf("verificar licencias: %w", err)
		}
		if len(existentes) > 0 {
			return newError(KindDuplicateLicense, fmt.Sprintf("la licencia %q ya existe", existentes[0]), nil)
		}

		keys := make([]model.Key, len(licencias))
		for i, l := range licencias {
			keys[i] = model.Key{ProductoID: productoID, Licencia: l, Estado: model.KeyEstadoAvailable}
		}
		if err := s.keys.CreateBatchTx(tx, keys); err != nil {
			// a concurrent batch may have inserted the same licence after our check
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(KindDuplicateLicense, "una de las licencias ya existe", err)
			}
			return fmt.Errorf("insertar keys: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("producto_id", productoID.String()).
		Int("agregadas", len(licencias)).
		Msg("keys agregadas")
	return len(licencias), nil
}

// parseLicencias splits raw into trimmed, non-blank lines. \n, \r\n and lone \r
// all count as line breaks.
func parseLicencias(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func firstDuplicate(licencias []string) string {
	seen := make(map[string]struct{}, len(licencias))
	for _, l := range licencias {
		if _, ok := seen[l]; ok {
			return l
		}
		seen[l] = struct{}{}
	}
	return ""
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (s *inventarioService) StockDisponible(ctx context.Context, productoID uuid.UUID) (int64, error) {
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return 0, notFoundOr(err, "producto no encontrado", "buscar producto")
	}
	n, err := s.keys.CountByEstado(ctx, productoID, model.KeyEstadoAvailable)
	if err != nil {
		return 0, fmt.Errorf("contar keys: %w", err)
	}
	return n, nil
}

// ── MarcarUsada ───────────────────────────────────────────────────────────────
// The conditional UPDATE is the only writer of estado, so two concurrent calls
// cannot both consume the same key.

func (s *inventarioService) MarcarUsada(ctx context.Context, keyID uuid.UUID) (*dto.KeyResponse, error) {
	var key *model.Key
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		n, err := s.keys.MarcarUsadaTx(tx, keyID, s.now())
		if err != nil {
			return fmt.Errorf("marcar key: %w", err)
		}
		k, err := s.keys.FindByIDTx(tx, keyID)
		if err != nil {
			return notFoundOr(err, "key no encontrada", "buscar key")
		}
		if n == 0 {
			return newError(KindAlreadyUsed, "la key ya fue utilizada", nil)
		}
		key = k
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("key_id", key.ID.String()).
		Str("producto_id", key.ProductoID.String()).
		Msg("key marcada como usada")
	resp := keyToResponse(*key)
	return &resp, nil
}

// ── EliminarProducto ──────────────────────────────────────────────────────────

func (s *inventarioService) EliminarProducto(ctx context.Context, productoID uuid.UUID) error {
	var borradas int64
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if _, err := s.productos.FindByIDTx(tx, productoID); err != nil {
			return notFoundOr(err, "producto no encontrado", "buscar producto")
		}
		n, err := s.keys.DeleteByProductoTx(tx, productoID)
		if err != nil {
			return fmt.Errorf("eliminar keys: %w", err)
		}
		borradas = n
		if _, err := s.productos.DeleteTx(tx, productoID); err != nil {
			return fmt.Errorf("eliminar producto: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("producto_id", productoID.String()).
		Int64("keys_eliminadas", borradas).
		Msg("producto eliminado")
	return nil
}

// ── Listados ──────────────────────────────────────────────────────────────────

func (s *inventarioService) ListarKeys(ctx context.Context, productoID uuid.UUID) (*dto.KeysProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return nil, notFoundOr(err, "producto no encontrado", "buscar producto")
	}
	keys, err := s.keys.ListByProducto(ctx, productoID, "")
	if err != nil {
		return nil, fmt.Errorf("listar keys: %w", err)
	}

	resp := &dto.KeysProductoResponse{
		Disponibles: []dto.KeyResponse{},
		Usadas:      []dto.KeyResponse{},
	}
	for _, k := range keys {
		if k.Estado == model.KeyEstadoUsed {
			resp.Usadas = append(resp.Usadas, keyToResponse(k))
		} else {
			resp.Disponibles = append(resp.Disponibles, keyToResponse(k))
		}
	}
	resp.Producto = productoToResponse(*p, int64(len(resp.Disponibles)))
	return resp, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context, umbral int) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productos.ListAll(ctx)
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

	alertas := []dto.AlertaStockResponse{}
	for _, p := range productos {
		n := stock[p.ID]
		if n > int64(umbral) {
			continue
		}
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:      p.ID.String(),
			Nombre:          p.Nombre,
			Categoria:       p.Categoria,
			StockDisponible: n,
			Umbral:          umbral,
		})
	}
	sort.SliceStable(alertas, func(i, j int) bool {
		return alertas[i].StockDisponible < alertas[j].StockDisponible
	})
	return alertas, nil
}

func keyToResponse(k model.Key) dto.KeyResponse {
	resp := dto.KeyResponse{
		ID:         k.ID.String(),
		ProductoID: k.ProductoID.String(),
		Licencia:   k.Licencia,
		Estado:     k.Estado,
	}
	if k.FechaUso != nil {
		f := k.FechaUso.Format(time.RFC3339)
		resp.FechaUso = &f
	}
	return resp
}

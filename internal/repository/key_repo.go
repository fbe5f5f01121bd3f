package repository

import (
	"context"
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// inChunk keeps IN (...) lists under SQLite's bound-parameter limit.
const inChunk = 500

// KeyRepository defines the data access contract for licence keys.
type KeyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Key, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID, estado string) ([]model.Key, error)
	CountByEstado(ctx context.Context, productoID uuid.UUID, estado string) (int64, error)
	// CountDisponibles returns available-key counts for several products in one
	// grouped query. Products without available keys are absent from the map.
	CountDisponibles(ctx context.Context, productoIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// Used inside transactions: callers pass the tx instance
	CreateBatchTx(tx *gorm.DB, keys []model.Key) error
	ExistingLicenciasTx(tx *gorm.DB, licencias []string) ([]string, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Key, error)
	// MarcarUsadaTx moves a key from available to used; 0 rows means the key is
	// missing or was already consumed.
	MarcarUsadaTx(tx *gorm.DB, id uuid.UUID, at time.Time) (int64, error)
	DeleteByProductoTx(tx *gorm.DB, productoID uuid.UUID) (int64, error)
}

type keyRepo struct{ db *gorm.DB }

func NewKeyRepository(db *gorm.DB) KeyRepository { return &keyRepo{db: db} }

func (r *keyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Key, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *keyRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, estado string) ([]model.Key, error) {
	var keys []model.Key
	q := r.db.WithContext(ctx).Where("producto_id = ?", productoID)
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Order("licencia ASC").Find(&keys).Error
	return keys, err
}

func (r *keyRepo) CountByEstado(ctx context.Context, productoID uuid.UUID, estado string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Key{}).
		Where("producto_id = ? AND estado = ?", productoID, estado).
		Count(&n).Error
	return n, err
}

func (r *keyRepo) CountDisponibles(ctx context.Context, productoIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(productoIDs))
	for start := 0; start < len(productoIDs); start += inChunk {
		end := min(start+inChunk, len(productoIDs))
		var rows []struct {
			ProductoID uuid.UUID
			Total      int64
		}
		err := r.db.WithContext(ctx).Model(&model.Key{}).
			Select("producto_id, COUNT(*) AS total").
			Where("estado = ? AND producto_id IN ?", model.KeyEstadoAvailable, productoIDs[start:end]).
			Group("producto_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			out[row.ProductoID] = row.Total
		}
	}
	return out, nil
}

func (r *keyRepo) CreateBatchTx(tx *gorm.DB, keys []model.Key) error {
	return tx.CreateInBatches(keys, inChunk/5).Error
}

func (r *keyRepo) ExistingLicenciasTx(tx *gorm.DB, licencias []string) ([]string, error) {
	var found []string
	for start := 0; start < len(licencias); start += inChunk {
		end := min(start+inChunk, len(licencias))
		var chunk []string
		err := tx.Model(&model.Key{}).
			Where("licencia IN ?", licencias[start:end]).
			Pluck("licencia", &chunk).Error
		if err != nil {
			return nil, err
		}
		found = append(found, chunk...)
	}
	return found, nil
}

func (r *keyRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Key, error) {
	var k model.Key
	err := tx.Where("id = ?", id).First(&k).Error
	return &k, err
}

func (r *keyRepo) MarcarUsadaTx(tx *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	res := tx.Model(&model.Key{}).
		Where("id = ? AND estado = ?", id, model.KeyEstadoAvailable).
		Updates(map[string]interface{}{
			"estado":    model.KeyEstadoUsed,
			"fecha_uso": at,
		})
	return res.RowsAffected, res.Error
}

func (r *keyRepo) DeleteByProductoTx(tx *gorm.DB, productoID uuid.UUID) (int64, error) {
	res := tx.Where("producto_id = ?", productoID).Delete(&model.Key{})
	return res.RowsAffected, res.Error
}

package infra

import (
	"fmt"

	"github.com/TORRES240325/panel-socios-final/internal/model"

	"gorm.io/gorm"
)

// EnsureSchema creates every table that does not exist yet and then applies the
// idempotent index patches. Existing tables are never dropped or altered: schema
// changes on a live database are a manual operation.
func EnsureSchema(db *gorm.DB) error {
	// Order matters: keys references productos.
	tables := []interface{}{
		&model.Usuario{},
		&model.Producto{},
		&model.Key{},
	}
	m := db.Migrator()
	for _, t := range tables {
		if m.HasTable(t) {
			continue
		}
		if err := m.CreateTable(t); err != nil {
			return fmt.Errorf("create table %T: %w", t, err)
		}
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that the struct tags cannot express. Every statement
// uses IF NOT EXISTS so re-running on an already-patched DB is a no-op, and the
// syntax is shared by PostgreSQL and SQLite.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// stock counts filter by product and state
		{"idx_keys_producto_estado",
			`CREATE INDEX IF NOT EXISTS idx_keys_producto_estado ON keys (producto_id, estado)`},
		{"idx_productos_categoria",
			`CREATE INDEX IF NOT EXISTS idx_productos_categoria ON productos (categoria)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

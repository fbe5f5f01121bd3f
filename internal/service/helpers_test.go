package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/config"
	"github.com/TORRES240325/panel-socios-final/internal/dto"
	"github.com/TORRES240325/panel-socios-final/internal/infra"
	"github.com/TORRES240325/panel-socios-final/internal/repository"
	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ctxT returns a context bounded like a real request and cancelled with the test.
func ctxT(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ── SQLite-backed fixture ─────────────────────────────────────────────────────

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DatabaseURL: "sqlite://" + filepath.Join(t.TempDir(), "socios_test.db"),
		DBTimeout:   5 * time.Second,
		DBMaxOpen:   1,
		DBMaxIdle:   1,
	}
	db, err := infra.NewDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, infra.EnsureSchema(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db         *gorm.DB
	usuarios   repository.UsuarioRepository
	productos  repository.ProductoRepository
	keys       repository.KeyRepository
	inventario service.InventarioService
	catalogo   service.ProductoService
	saldos     service.SaldoService
	socios     service.UsuarioService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:        db,
		usuarios:  repository.NewUsuarioRepository(db),
		productos: repository.NewProductoRepository(db),
		keys:      repository.NewKeyRepository(db),
	}
	f.inventario = service.NewInventarioService(f.productos, f.keys)
	f.catalogo = service.NewProductoService(f.productos, f.keys)
	f.saldos = service.NewSaldoService(f.usuarios)
	f.socios = service.NewUsuarioService(f.usuarios, bcrypt.MinCost)
	return f
}

func (f *fixture) crearProducto(t *testing.T, nombre, categoria string) uuid.UUID {
	t.Helper()
	precio := decimal.RequireFromString("19.99")
	p, err := f.catalogo.Crear(ctxT(t), dto.CrearProductoRequest{
		Nombre:    nombre,
		Categoria: categoria,
		Precio:    &precio,
	})
	require.NoError(t, err)
	return uuid.MustParse(p.ID)
}

func (f *fixture) crearSocio(t *testing.T, username, saldo string, admin bool) uuid.UUID {
	t.Helper()
	u, err := f.socios.CrearUsuario(ctxT(t), dto.CrearUsuarioRequest{
		Username: username,
		LoginKey: username + "-secret",
		Saldo:    saldo,
		EsAdmin:  admin,
	})
	require.NoError(t, err)
	return uuid.MustParse(u.ID)
}

package service_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAgregarKeys_IncrementaStockPorLineasNoVacias(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "VPN-1YR", "vpn")

	n, err := f.inventario.AgregarKeys(ctx, id, "  AAA-111  \r\n\r\nBBB-222\n   \nCCC-333\r")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stock, err := f.inventario.StockDisponible(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stock)

	n, err = f.inventario.AgregarKeys(ctx, id, "DDD-444\nEEE-555")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stock, err = f.inventario.StockDisponible(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestAgregarKeys_DuplicadoDentroDelLote_RechazaTodo(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "VPN-1YR", "vpn")

	_, err := f.inventario.AgregarKeys(ctx, id, "AAA-111\nBBB-222\nBBB-222")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrDuplicateLicense))

	stock, err := f.inventario.StockDisponible(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}

func TestAgregarKeys_ColisionConExistente_NoPersisteNada(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	vpn := f.crearProducto(t, "VPN-1YR", "vpn")
	antivirus := f.crearProducto(t, "Antivirus", "seguridad")

	_, err := f.inventario.AgregarKeys(ctx, vpn, "AAA-111")
	require.NoError(t, err)

	// licences are unique across products
	_, err = f.inventario.AgregarKeys(ctx, antivirus, "ZZZ-999\nAAA-111\nYYY-888")
	require.Error(t, err)
	assert.Equal(t, service.KindDuplicateLicense, service.KindOf(err))

	keys, err := f.inventario.ListarKeys(ctx, antivirus)
	require.NoError(t, err)
	assert.Empty(t, keys.Disponibles)
	assert.Empty(t, keys.Usadas)

	stock, err := f.inventario.StockDisponible(ctx, vpn)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock)
}

func TestAgregarKeys_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "VPN-1YR", "vpn")

	_, err := f.inventario.AgregarKeys(ctx, id, " \n\r\n\t ")
	assert.True(t, errors.Is(err, service.ErrInvalidInput))

	_, err = f.inventario.AgregarKeys(ctx, uuid.New(), "AAA-111")
	assert.True(t, errors.Is(err, service.ErrNotFound))

	largo := make([]byte, 256)
	for i := range largo {
		largo[i] = 'x'
	}
	_, err = f.inventario.AgregarKeys(ctx, id, string(largo))
	assert.True(t, errors.Is(err, service.ErrInvalidInput))
}

func TestStockDisponible_NoCuentaKeysUsadas(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "Office", "ofimatica")

	_, err := f.inventario.AgregarKeys(ctx, id, "K1\nK2\nK3")
	require.NoError(t, err)
	listado, err := f.inventario.ListarKeys(ctx, id)
	require.NoError(t, err)
	require.Len(t, listado.Disponibles, 3)

	_, err = f.inventario.MarcarUsada(ctx, uuid.MustParse(listado.Disponibles[0].ID))
	require.NoError(t, err)

	stock, err := f.inventario.StockDisponible(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stock)

	listado, err = f.inventario.ListarKeys(ctx, id)
	require.NoError(t, err)
	assert.Len(t, listado.Disponibles, 2)
	assert.Len(t, listado.Usadas, 1)
	assert.Equal(t, int64(2), listado.Producto.StockDisponible)

	_, err = f.inventario.StockDisponible(ctx, uuid.New())
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestMarcarUsada_SegundaVezFallaConAlreadyUsed(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "Office", "ofimatica")
	_, err := f.inventario.AgregarKeys(ctx, id, "K1")
	require.NoError(t, err)
	listado, err := f.inventario.ListarKeys(ctx, id)
	require.NoError(t, err)
	keyID := uuid.MustParse(listado.Disponibles[0].ID)

	usada, err := f.inventario.MarcarUsada(ctx, keyID)
	require.NoError(t, err)
	assert.Equal(t, "used", usada.Estado)
	require.NotNil(t, usada.FechaUso)

	_, err = f.inventario.MarcarUsada(ctx, keyID)
	assert.True(t, errors.Is(err, service.ErrAlreadyUsed))

	_, err = f.inventario.MarcarUsada(ctx, uuid.New())
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestMarcarUsada_ConcurrenteSoloUnoGana(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "Office", "ofimatica")
	_, err := f.inventario.AgregarKeys(ctx, id, "UNICA")
	require.NoError(t, err)
	listado, err := f.inventario.ListarKeys(ctx, id)
	require.NoError(t, err)
	keyID := uuid.MustParse(listado.Disponibles[0].ID)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exitos   int
		repetida int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.inventario.MarcarUsada(ctx, keyID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				exitos++
			case errors.Is(err, service.ErrAlreadyUsed):
				repetida++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, exitos)
	assert.Equal(t, workers-1, repetida)
}

func TestEliminarProducto_BorraProductoYKeys(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearProducto(t, "VPN-1YR", "vpn")
	otro := f.crearProducto(t, "Antivirus", "seguridad")
	_, err := f.inventario.AgregarKeys(ctx, id, "AAA\nBBB")
	require.NoError(t, err)
	_, err = f.inventario.AgregarKeys(ctx, otro, "CCC")
	require.NoError(t, err)

	listado, err := f.inventario.ListarKeys(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.inventario.EliminarProducto(ctx, id))

	for _, k := range listado.Disponibles {
		_, err := f.keys.FindByID(ctx, uuid.MustParse(k.ID))
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		_, err = f.inventario.MarcarUsada(ctx, uuid.MustParse(k.ID))
		assert.True(t, errors.Is(err, service.ErrNotFound))
	}
	_, err = f.catalogo.ObtenerPorID(ctx, id)
	assert.True(t, errors.Is(err, service.ErrNotFound))

	// unrelated products keep their keys
	stock, err := f.inventario.StockDisponible(ctx, otro)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock)

	err = f.inventario.EliminarProducto(ctx, id)
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestObtenerAlertas_OrdenadasPorStock(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	vacio := f.crearProducto(t, "Vacio", "a")
	bajo := f.crearProducto(t, "Bajo", "a")
	lleno := f.crearProducto(t, "Lleno", "a")

	_, err := f.inventario.AgregarKeys(ctx, bajo, "B1\nB2")
	require.NoError(t, err)
	_, err = f.inventario.AgregarKeys(ctx, lleno, "L1\nL2\nL3\nL4\nL5\nL6")
	require.NoError(t, err)

	alertas, err := f.inventario.ObtenerAlertas(ctx, 5)
	require.NoError(t, err)
	require.Len(t, alertas, 2)
	assert.Equal(t, vacio.String(), alertas[0].ProductoID)
	assert.Equal(t, int64(0), alertas[0].StockDisponible)
	assert.Equal(t, bajo.String(), alertas[1].ProductoID)
	assert.Equal(t, int64(2), alertas[1].StockDisponible)
	assert.Equal(t, 5, alertas[1].Umbral)

	alertas, err = f.inventario.ObtenerAlertas(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, "Vacio", alertas[0].Nombre)
}

package service_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/TORRES240325/panel-socios-final/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAjustarSaldo_IdaYVueltaSinDeriva(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearSocio(t, "ana", "1000.00", false)

	r, err := f.saldos.AjustarSaldo(ctx, id, "50")
	require.NoError(t, err)
	assert.True(t, r.Saldo.Equal(decimal.RequireFromString("1050.00")), r.Saldo.String())

	r, err = f.saldos.AjustarSaldo(ctx, id, "-50")
	require.NoError(t, err)
	assert.True(t, r.Saldo.Equal(decimal.RequireFromString("1000.00")), r.Saldo.String())

	r, err = f.saldos.AjustarSaldo(ctx, id, "12.25")
	require.NoError(t, err)
	r, err = f.saldos.AjustarSaldo(ctx, id, "-12.25")
	require.NoError(t, err)
	assert.True(t, r.Saldo.Equal(decimal.RequireFromString("1000.00")), r.Saldo.String())
}

func TestAjustarSaldo_SinPisoPermiteNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearSocio(t, "beto", "1000.00", false)

	r, err := f.saldos.AjustarSaldo(ctx, id, "-1500.00")
	require.NoError(t, err)
	assert.Equal(t, "-500.00", r.Saldo.StringFixed(2))
	assert.Equal(t, "beto", r.Username)
}

func TestAjustarSaldo_MontoInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearSocio(t, "carla", "10", false)

	for _, monto := range []string{"", "   ", "abc", "NaN", "Inf", "1,50", "1.234", "1e12", "--5"} {
		_, err := f.saldos.AjustarSaldo(ctx, id, monto)
		assert.Truef(t, errors.Is(err, service.ErrInvalidAmount), "monto %q: %v", monto, err)
	}

	u, err := f.socios.ObtenerUsuario(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "10.00", u.Saldo.StringFixed(2))
}

func TestAjustarSaldo_SocioInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.saldos.AjustarSaldo(ctxT(t), uuid.New(), "5")
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestAjustarSaldo_ConcurrenteNoPierdeEscrituras(t *testing.T) {
	f := newFixture(t)
	ctx := ctxT(t)
	id := f.crearSocio(t, "dani", "1000.00", false)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.saldos.AjustarSaldo(ctx, id, "1.00")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := f.socios.ObtenerUsuario(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1020.00", u.Saldo.StringFixed(2))
}

func TestParseMonto(t *testing.T) {
	d, err := service.ParseMonto(" -0.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("-0.5")))

	d, err = service.ParseMonto("9999999999.99")
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", d.StringFixed(2))

	_, err = service.ParseMonto("10000000000")
	assert.True(t, errors.Is(err, service.ErrInvalidAmount))
}

package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseLicencias(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"vacio", "", nil},
		{"solo blancos", " \n\t\r\n  ", nil},
		{"unix", "A\nB", []string{"A", "B"}},
		{"windows", "A\r\nB\r\n", []string{"A", "B"}},
		{"mac clasico", "A\rB", []string{"A", "B"}},
		{"recorta", "  A-1  \n\tB-2\t", []string{"A-1", "B-2"}},
		{"espacios internos", "AB CD", []string{"AB CD"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseLicencias(tc.raw))
		})
	}
}

func TestFirstDuplicate(t *testing.T) {
	assert.Equal(t, "", firstDuplicate([]string{"A", "B"}))
	assert.Equal(t, "B", firstDuplicate([]string{"A", "B", "C", "B", "A"}))
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("capa externa: %w", newError(KindNotFound, "producto no encontrado", nil))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyUsed))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("otro")))

	wrapped := notFoundOr(gorm.ErrRecordNotFound, "key no encontrada", "buscar key")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, errors.Is(wrapped, gorm.ErrRecordNotFound))

	cause := errors.New("conexion perdida")
	other := notFoundOr(cause, "x", "buscar key")
	assert.True(t, errors.Is(other, cause))
	assert.Equal(t, Kind(""), KindOf(other))
}

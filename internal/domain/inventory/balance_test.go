package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

var d = inventory.MustDecimal

func TestCalculate_AjusteAObjetivo(t *testing.T) {
	cases := []struct {
		name    string
		current string
		target  string
		dir     entity.Direction
		qty     string
		balance string
	}{
		{"sube de 10.5 a 25.75", "10.5", "25.75", entity.DirectionIn, "15.25", "25.75"},
		{"baja de 25.75 a 7.25", "25.75", "7.25", entity.DirectionOut, "18.5", "7.25"},
		{"desde cero", "0", "3", entity.DirectionIn, "3", "3"},
		{"a cero", "4.1234", "0", entity.DirectionOut, "4.1234", "0"},
		{"desde saldo negativo", "-2", "1", entity.DirectionIn, "3", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := inventory.Calculate(d(tc.current), inventory.AdjustTo(d(tc.target)))
			require.NoError(t, err)
			assert.Equal(t, tc.dir, out.Direction)
			assert.True(t, d(tc.qty).Equal(out.Quantity), "cantidad: esperado %s, obtenido %s", tc.qty, out.Quantity)
			assert.True(t, d(tc.balance).Equal(out.Balance), "saldo: esperado %s, obtenido %s", tc.balance, out.Balance)
		})
	}
}

func TestCalculate_AjusteSinCambioSeRechaza(t *testing.T) {
	_, err := inventory.Calculate(d("12.50"), inventory.AdjustTo(d("12.5")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoChange))
	assert.Equal(t, domain.CodeNoChange, domain.CodeOf(err))
}

func TestCalculate_AjusteObjetivoNegativo(t *testing.T) {
	_, err := inventory.Calculate(d("1"), inventory.AdjustTo(d("-1")))
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestCalculate_Entrada(t *testing.T) {
	out, err := inventory.Calculate(d("0"), inventory.Receive(d("12")))
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionIn, out.Direction)
	assert.True(t, d("12").Equal(out.Quantity))
	assert.True(t, d("12").Equal(out.Balance))
}

func TestCalculate_SalidaPermiteSaldoNegativo(t *testing.T) {
	out, err := inventory.Calculate(d("1"), inventory.Consume(d("2.5")))
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOut, out.Direction)
	assert.True(t, d("-1.5").Equal(out.Balance))
}

func TestCalculate_CantidadNoPositiva(t *testing.T) {
	for _, in := range []inventory.Intent{
		inventory.Receive(d("0")),
		inventory.Receive(d("-1")),
		inventory.Consume(d("0")),
		inventory.Explicit(entity.DirectionIn, d("0")),
		inventory.Explicit(entity.DirectionOut, d("-3")),
	} {
		_, err := inventory.Calculate(d("5"), in)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuantity), "intención %+v", in)
	}
}

func TestCalculate_Explicita(t *testing.T) {
	out, err := inventory.Calculate(d("100"), inventory.Explicit(entity.DirectionOut, d("2.75")))
	require.NoError(t, err)
	assert.True(t, d("97.25").Equal(out.Balance))

	out, err = inventory.Calculate(d("100"), inventory.Explicit(entity.DirectionIn, d("0.0001")))
	require.NoError(t, err)
	assert.True(t, d("100.0001").Equal(out.Balance))

	_, err = inventory.Calculate(d("100"), inventory.Explicit("SIDEWAYS", d("1")))
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestCalculate_SinDerivaDecimal(t *testing.T) {
	// 0.1 + 0.2 en flotante da 0.30000000000000004
	out, err := inventory.Calculate(d("0.1"), inventory.Receive(d("0.2")))
	require.NoError(t, err)
	assert.Equal(t, "0.3", out.Balance.String())
}

func TestCalculate_MasDeCuatroDecimalesSeRechaza(t *testing.T) {
	cases := []struct {
		name  string
		in    inventory.Intent
		field string
	}{
		{"objetivo", inventory.AdjustTo(decimal.RequireFromString("7.25005")), "target_quantity"},
		{"entrada", inventory.Receive(decimal.RequireFromString("0.00004")), "quantity"},
		{"salida", inventory.Consume(decimal.RequireFromString("1.12345")), "quantity"},
		{"explícita", inventory.Explicit(entity.DirectionIn, decimal.RequireFromString("3.00001")), "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.Calculate(d("10"), tc.in)
			require.Error(t, err)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
			e, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Contains(t, e.Details, tc.field)
		})
	}
}

func TestCalculate_CerosSobrantesSeAceptan(t *testing.T) {
	out, err := inventory.Calculate(d("10"), inventory.AdjustTo(decimal.RequireFromString("7.2500000")))
	require.NoError(t, err)
	assert.True(t, d("7.25").Equal(out.Balance))
}

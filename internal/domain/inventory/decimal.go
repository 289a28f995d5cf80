package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
)

// QuantityScale dígitos decimales con los que se guardan cantidades y costos (NUMERIC(18,4)).
const QuantityScale int32 = 4

// NormalizeQuantity redondea a QuantityScale para que el valor en memoria coincida con el persistido.
func NormalizeQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// CheckScale rechaza con VALIDATION un valor de entrada con más de QuantityScale decimales
// significativos; los ceros sobrantes ("2.500000") se aceptan.
func CheckScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(QuantityScale)) {
		return domain.Validation(fmt.Sprintf("%s admite como máximo %d decimales", field, QuantityScale)).
			WithDetail(field, d.String())
	}
	return nil
}

// ParseQuantity interpreta una cantidad o costo textual ("12", "15.25", "1,5").
// No acepta notación exponencial.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("cantidad vacía")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("cantidad %q: notación exponencial no soportada", s)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cantidad %q: %w", s, err)
	}
	return NormalizeQuantity(d), nil
}

// MustDecimal convierte un literal a decimal; entra en pánico si es inválido. Solo para constantes y tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return d
}

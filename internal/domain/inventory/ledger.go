package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// Discrepancy inconsistencia encontrada al verificar el libro de un producto.
type Discrepancy struct {
	MovementID string          `json:"movement_id,omitempty"`
	Sequence   int64           `json:"sequence,omitempty"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Reason     string          `json:"reason"`
}

// Replay pliega los movimientos (en orden de commit) y devuelve el agregado resultante.
// El costo sigue la regla de LastWriteWins: la foto de costo de la última entrada.
func Replay(enterpriseID, productID string, movements []*entity.StockMovement) *entity.StockAggregate {
	agg := entity.NewStockAggregate(enterpriseID, productID)
	for _, m := range movements {
		agg.Quantity = agg.Quantity.Add(m.Signed())
		if m.Direction == entity.DirectionIn {
			agg.UnitCost = m.UnitCost
		}
		agg.LastSequence = m.Sequence
		agg.UpdatedAt = m.CreatedAt
	}
	return agg
}

// Verify comprueba balance[i] = balance[i-1] ± quantity[i], quantity > 0 y que el último
// saldo coincida con el agregado. Devuelve nil si el libro es consistente.
func Verify(movements []*entity.StockMovement, agg *entity.StockAggregate) []Discrepancy {
	var out []Discrepancy
	prev := decimal.Zero
	for _, m := range movements {
		if !m.Quantity.IsPositive() {
			out = append(out, Discrepancy{
				MovementID: m.ID, Sequence: m.Sequence,
				Expected: decimal.Zero, Actual: m.Quantity,
				Reason: "cantidad no positiva",
			})
		}
		if !m.Direction.Valid() {
			out = append(out, Discrepancy{
				MovementID: m.ID, Sequence: m.Sequence,
				Reason: fmt.Sprintf("dirección desconocida %q", m.Direction),
			})
		}
		expected := prev.Add(m.Signed())
		if !expected.Equal(m.Balance) {
			out = append(out, Discrepancy{
				MovementID: m.ID, Sequence: m.Sequence,
				Expected: expected, Actual: m.Balance,
				Reason: "saldo no encadena con el movimiento anterior",
			})
		}
		prev = m.Balance
	}
	if agg != nil && !prev.Equal(agg.Quantity) {
		out = append(out, Discrepancy{
			Expected: prev, Actual: agg.Quantity,
			Reason: "la cantidad del agregado no coincide con el último saldo",
		})
	}
	return out
}

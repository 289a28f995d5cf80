package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

func mov(seq int64, dir entity.Direction, qty, balance, cost string) *entity.StockMovement {
	return &entity.StockMovement{
		ID: "m", Sequence: seq, Direction: dir,
		Quantity: d(qty), Balance: d(balance), UnitCost: d(cost),
	}
}

func TestReplay_SumaConSigno(t *testing.T) {
	movs := []*entity.StockMovement{
		mov(1, entity.DirectionIn, "10.5", "10.5", "2"),
		mov(2, entity.DirectionIn, "15.25", "25.75", "6.66"),
		mov(3, entity.DirectionOut, "18.5", "7.25", "6.66"),
	}
	agg := inventory.Replay("ent", "prod", movs)
	assert.True(t, d("7.25").Equal(agg.Quantity))
	assert.True(t, d("6.66").Equal(agg.UnitCost))
	assert.Equal(t, int64(3), agg.LastSequence)
	assert.Empty(t, inventory.Verify(movs, agg))
}

func TestVerify_DetectaSaldoRoto(t *testing.T) {
	movs := []*entity.StockMovement{
		mov(1, entity.DirectionIn, "10", "10", "0"),
		mov(2, entity.DirectionOut, "3", "8", "0"), // debería ser 7
	}
	agg := aggregate("8", "0")
	found := inventory.Verify(movs, agg)
	if assert.Len(t, found, 1) {
		assert.Equal(t, int64(2), found[0].Sequence)
		assert.True(t, d("7").Equal(found[0].Expected))
	}
}

func TestVerify_DetectaAgregadoDesalineado(t *testing.T) {
	movs := []*entity.StockMovement{mov(1, entity.DirectionIn, "10", "10", "0")}
	found := inventory.Verify(movs, aggregate("9", "0"))
	assert.Len(t, found, 1)
}

func TestVerify_LibroVacio(t *testing.T) {
	assert.Empty(t, inventory.Verify(nil, entity.NewStockAggregate("e", "p")))
}

package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback y nada de lo escrito es visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		finder repository.EntityFinder,
	) error) error
}

// Metrics observa las escrituras del libro.
type Metrics interface {
	MovementRecorded(source entity.Source, direction entity.Direction, quantity decimal.Decimal)
	MovementRejected(code string)
}

type nopMetrics struct{}

func (nopMetrics) MovementRecorded(entity.Source, entity.Direction, decimal.Decimal) {}
func (nopMetrics) MovementRejected(string)                                           {}

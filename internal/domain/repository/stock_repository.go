package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// StockRepository puerto de persistencia del agregado de stock (enterprise, product).
type StockRepository interface {
	// Get devuelve el agregado actual o uno vacío (cantidad 0, costo 0) si no existe.
	Get(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error)
	// GetForUpdate igual que Get pero bloquea el agregado hasta el fin de la transacción.
	// Si la fila no existe la crea en cero antes de bloquearla.
	GetForUpdate(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error)
	// GetLocked bloquea el agregado si existe, sin crearlo; si no existe devuelve uno vacío.
	GetLocked(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error)
	Upsert(ctx context.Context, agg *entity.StockAggregate) error
}

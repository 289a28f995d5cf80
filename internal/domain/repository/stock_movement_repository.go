package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// Campos de orden permitidos en el listado de movimientos.
const (
	SortCreatedAt = "created_at"
	SortQuantity  = "quantity"
	SortBalance   = "balance"
	SortUnitCost  = "unit_cost"
	SortDirection = "direction"
	SortSource    = "source"
)

// MovementSortFields lista blanca de campos de orden.
var MovementSortFields = map[string]bool{
	SortCreatedAt: true,
	SortQuantity:  true,
	SortBalance:   true,
	SortUnitCost:  true,
	SortDirection: true,
	SortSource:    true,
}

// MovementFilter criterios del listado de movimientos de un producto.
type MovementFilter struct {
	EnterpriseID string
	ProductID    string
	WarehouseID  string
	Direction    entity.Direction
	Source       entity.Source
	Reference    string // subcadena, sin distinguir mayúsculas
	SortField    string // uno de MovementSortFields
	SortDesc     bool
	Limit        int
	Offset       int
}

// StockMovementRepository puerto de persistencia del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, enterpriseID, id string) (*entity.StockMovement, error)
	// List devuelve la página pedida y el total de coincidencias.
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, int, error)
	// ListAllByProduct devuelve todos los movimientos del producto en orden de commit.
	ListAllByProduct(ctx context.Context, enterpriseID, productID string) ([]*entity.StockMovement, error)
}

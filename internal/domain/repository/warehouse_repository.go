package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// WarehouseRepository puerto de persistencia para Warehouse.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]*entity.Warehouse, error)
}

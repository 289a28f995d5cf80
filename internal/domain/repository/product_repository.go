package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, enterpriseID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, enterpriseID, sku string) (*entity.Product, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// EnterpriseRepository alta idempotente de tenants (usada por el seed).
type EnterpriseRepository interface {
	Upsert(ctx context.Context, e *entity.Enterprise) error
}

// SupplierRepository alta de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
}

// LotRepository alta de lotes.
type LotRepository interface {
	Create(ctx context.Context, l *entity.Lot) error
}

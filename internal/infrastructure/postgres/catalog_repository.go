package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var (
	_ repository.EnterpriseRepository = (*EnterpriseRepo)(nil)
	_ repository.SupplierRepository   = (*SupplierRepo)(nil)
	_ repository.LotRepository        = (*LotRepo)(nil)
)

// EnterpriseRepo alta de empresas.
type EnterpriseRepo struct{ q Querier }

// SupplierRepo alta de proveedores.
type SupplierRepo struct{ q Querier }

// LotRepo alta de lotes.
type LotRepo struct{ q Querier }

func NewEnterpriseRepository(q Querier) *EnterpriseRepo { return &EnterpriseRepo{q: q} }
func NewSupplierRepository(q Querier) *SupplierRepo     { return &SupplierRepo{q: q} }
func NewLotRepository(q Querier) *LotRepo               { return &LotRepo{q: q} }

// Upsert crea la empresa o actualiza nombre, NIT y estado.
func (r *EnterpriseRepo) Upsert(ctx context.Context, e *entity.Enterprise) error {
	query := `
		INSERT INTO enterprises (id, name, tax_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, tax_id = EXCLUDED.tax_id, status = EXCLUDED.status, updated_at = now()`
	_, err := r.q.Exec(ctx, query, e.ID, e.Name, e.TaxID, e.Status, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert enterprise: %w", err)
	}
	return nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, enterprise_id, name, tax_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.EnterpriseID, s.Name, s.TaxID, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("proveedor duplicado: " + s.ID)
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lots (id, enterprise_id, product_id, code, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.EnterpriseID, l.ProductID, l.Code, l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("lote duplicado: " + l.ID)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

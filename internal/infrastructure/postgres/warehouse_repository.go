package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

type warehouseRow struct {
	ID           string     `db:"id"`
	EnterpriseID string     `db:"enterprise_id"`
	Name         string     `db:"name"`
	Address      string     `db:"address"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, enterprise_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		warehouse.ID, warehouse.EnterpriseID, warehouse.Name, warehouse.Address,
		warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("bodega duplicada: " + warehouse.ID)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// ListByEnterprise lista bodegas activas por empresa con paginación.
func (r *WarehouseRepo) ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]*entity.Warehouse, error) {
	if !isUUID(enterpriseID) {
		return []*entity.Warehouse{}, nil
	}
	query := `
		SELECT id::text AS id, enterprise_id::text AS enterprise_id, name, address, created_at, updated_at, deleted_at
		FROM warehouses
		WHERE enterprise_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var rows []warehouseRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, enterpriseID, limit, offset); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	list := make([]*entity.Warehouse, 0, len(rows))
	for _, w := range rows {
		list = append(list, &entity.Warehouse{
			ID:           w.ID,
			EnterpriseID: w.EnterpriseID,
			Name:         w.Name,
			Address:      w.Address,
			CreatedAt:    w.CreatedAt,
			UpdatedAt:    w.UpdatedAt,
			DeletedAt:    w.DeletedAt,
		})
	}
	return list, nil
}

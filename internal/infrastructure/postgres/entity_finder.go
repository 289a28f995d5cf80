package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.EntityFinder = (*EntityFinder)(nil)

// Tablas consultables por tipo de entidad. Solo estas llegan al SQL.
var activeEntityTables = map[entity.Kind]string{
	entity.KindProduct:   "products",
	entity.KindWarehouse: "warehouses",
	entity.KindSupplier:  "suppliers",
	entity.KindLot:       "lots",
}

// EntityFinder resuelve referencias activas (no dadas de baja) dentro de una empresa.
type EntityFinder struct {
	q Querier
}

// NewEntityFinder construye el buscador. Pasar pool o tx (Querier).
func NewEntityFinder(q Querier) *EntityFinder {
	return &EntityFinder{q: q}
}

func (f *EntityFinder) FindActiveEntity(ctx context.Context, kind entity.Kind, id, enterpriseID string) (*entity.Ref, error) {
	table, ok := activeEntityTables[kind]
	if !ok {
		return nil, fmt.Errorf("tipo de entidad desconocido %q", kind)
	}
	if !isUUID(id) || !isUUID(enterpriseID) {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id::text FROM %s WHERE id = $1 AND enterprise_id = $2 AND deleted_at IS NULL`, table)
	var found string
	if err := f.q.QueryRow(ctx, query, id, enterpriseID).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return &entity.Ref{Kind: kind, ID: found, EnterpriseID: enterpriseID}, nil
}

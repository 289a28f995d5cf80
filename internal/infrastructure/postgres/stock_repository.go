package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `enterprise_id::text, product_id::text, quantity, unit_cost, last_sequence, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el agregado de un producto; si no hay fila devuelve uno en cero.
func (r *StockRepo) Get(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_aggregates WHERE enterprise_id = $1 AND product_id = $2`
	agg, err := r.scan(r.q.QueryRow(ctx, query, enterpriseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockAggregate(enterpriseID, productID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return agg, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_aggregates (enterprise_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (enterprise_id, product_id) DO NOTHING`,
		enterpriseID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}

	query := `SELECT ` + stockColumns + ` FROM stock_aggregates
		WHERE enterprise_id = $1 AND product_id = $2
		FOR UPDATE`
	agg, err := r.scan(r.q.QueryRow(ctx, query, enterpriseID, productID))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return agg, nil
}

// GetLocked bloquea la fila del agregado sin insertarla; un producto sin movimientos queda en cero.
func (r *StockRepo) GetLocked(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_aggregates
		WHERE enterprise_id = $1 AND product_id = $2
		FOR UPDATE`
	agg, err := r.scan(r.q.QueryRow(ctx, query, enterpriseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockAggregate(enterpriseID, productID), nil
		}
		return nil, fmt.Errorf("get stock locked: %w", err)
	}
	return agg, nil
}

// Upsert persiste cantidad, costo y última secuencia del agregado.
func (r *StockRepo) Upsert(ctx context.Context, agg *entity.StockAggregate) error {
	query := `
		INSERT INTO stock_aggregates (enterprise_id, product_id, quantity, unit_cost, last_sequence, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (enterprise_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              unit_cost = EXCLUDED.unit_cost,
		              last_sequence = EXCLUDED.last_sequence,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query, agg.EnterpriseID, agg.ProductID, agg.Quantity, agg.UnitCost, agg.LastSequence)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) scan(row pgx.Row) (*entity.StockAggregate, error) {
	var a entity.StockAggregate
	if err := row.Scan(&a.EnterpriseID, &a.ProductID, &a.Quantity, &a.UnitCost, &a.LastSequence, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// StockRepo implementa repository.StockRepository en memoria.
type StockRepo struct {
	s  *Store
	tx *tx
}

var _ repository.StockRepository = (*StockRepo)(nil)

func (r *StockRepo) Get(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	key := aggKey{enterpriseID, productID}
	if r.tx != nil {
		if agg, ok := r.tx.aggregates[key]; ok {
			cp := *agg
			return &cp, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if agg, ok := r.s.aggregates[key]; ok {
		cp := *agg
		return &cp, nil
	}
	return entity.NewStockAggregate(enterpriseID, productID), nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	if r.tx == nil {
		return nil, fmt.Errorf("memory: GetForUpdate requiere transacción")
	}
	if err := r.s.lock(ctx, r.tx, aggKey{enterpriseID, productID}); err != nil {
		return nil, err
	}
	return r.Get(ctx, enterpriseID, productID)
}

// GetLocked en memoria equivale a GetForUpdate: el bloqueo no crea el agregado.
func (r *StockRepo) GetLocked(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	return r.GetForUpdate(ctx, enterpriseID, productID)
}

func (r *StockRepo) Upsert(ctx context.Context, agg *entity.StockAggregate) error {
	cp := *agg
	key := aggKey{agg.EnterpriseID, agg.ProductID}
	if r.tx != nil {
		if _, ok := r.tx.held[key]; !ok {
			return fmt.Errorf("memory: agregado %s sin bloquear", agg.ProductID)
		}
		r.tx.aggregates[key] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.aggregates[key] = &cp
	return nil
}

package memory

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// MovementRepo implementa repository.StockMovementRepository en memoria. Solo inserta.
type MovementRepo struct {
	s  *Store
	tx *tx
}

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	cp := *m
	if r.tx != nil {
		if _, ok := r.tx.movByID[m.ID]; ok {
			return domain.Duplicate("movimiento duplicado: " + m.ID)
		}
		r.s.mu.RLock()
		_, exists := r.s.movByID[m.ID]
		r.s.mu.RUnlock()
		if exists {
			return domain.Duplicate("movimiento duplicado: " + m.ID)
		}
		r.tx.movements = append(r.tx.movements, &cp)
		r.tx.movByID[m.ID] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movByID[m.ID]; ok {
		return domain.Duplicate("movimiento duplicado: " + m.ID)
	}
	key := aggKey{m.EnterpriseID, m.ProductID}
	r.s.movements[key] = append(r.s.movements[key], &cp)
	r.s.movByID[m.ID] = &cp
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, enterpriseID, id string) (*entity.StockMovement, error) {
	if r.tx != nil {
		if m, ok := r.tx.movByID[id]; ok && m.EnterpriseID == enterpriseID {
			cp := *m
			return &cp, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movByID[id]
	if !ok || m.EnterpriseID != enterpriseID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MovementRepo) ListAllByProduct(ctx context.Context, enterpriseID, productID string) ([]*entity.StockMovement, error) {
	key := aggKey{enterpriseID, productID}
	r.s.mu.RLock()
	out := copyAll(r.s.movements[key])
	r.s.mu.RUnlock()
	if r.tx != nil {
		for _, m := range r.tx.movements {
			if m.EnterpriseID == enterpriseID && m.ProductID == productID {
				cp := *m
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	all, err := r.ListAllByProduct(ctx, f.EnterpriseID, f.ProductID)
	if err != nil {
		return nil, 0, err
	}

	var ref string
	if f.Reference != "" {
		ref = cases.Fold().String(f.Reference)
	}
	matched := all[:0]
	for _, m := range all {
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Direction != "" && m.Direction != f.Direction {
			continue
		}
		if f.Source != "" && m.Source != f.Source {
			continue
		}
		if ref != "" && (m.Reference == nil || !strings.Contains(cases.Fold().String(*m.Reference), ref)) {
			continue
		}
		matched = append(matched, m)
	}

	less := lessBy(f.SortField)
	sort.SliceStable(matched, func(i, j int) bool {
		if f.SortDesc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := len(matched)
	if f.Offset >= total {
		return []*entity.StockMovement{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

// lessBy comparador por campo; los empates se resuelven por secuencia.
func lessBy(field string) func(a, b *entity.StockMovement) bool {
	var cmp func(a, b *entity.StockMovement) int
	switch field {
	case repository.SortQuantity:
		cmp = func(a, b *entity.StockMovement) int { return a.Quantity.Cmp(b.Quantity) }
	case repository.SortBalance:
		cmp = func(a, b *entity.StockMovement) int { return a.Balance.Cmp(b.Balance) }
	case repository.SortUnitCost:
		cmp = func(a, b *entity.StockMovement) int { return a.UnitCost.Cmp(b.UnitCost) }
	case repository.SortDirection:
		cmp = func(a, b *entity.StockMovement) int { return strings.Compare(string(a.Direction), string(b.Direction)) }
	case repository.SortSource:
		cmp = func(a, b *entity.StockMovement) int { return strings.Compare(string(a.Source), string(b.Source)) }
	default:
		cmp = func(a, b *entity.StockMovement) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	return func(a, b *entity.StockMovement) bool {
		if c := cmp(a, b); c != 0 {
			return c < 0
		}
		return a.Sequence < b.Sequence
	}
}

func copyAll(in []*entity.StockMovement) []*entity.StockMovement {
	out := make([]*entity.StockMovement, 0, len(in))
	for _, m := range in {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

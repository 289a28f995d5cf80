package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// Finder implementa repository.EntityFinder sobre el catálogo en memoria.
type Finder struct {
	s *Store
}

var _ repository.EntityFinder = (*Finder)(nil)

func (f *Finder) FindActiveEntity(ctx context.Context, kind entity.Kind, id, enterpriseID string) (*entity.Ref, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	var owner string
	switch kind {
	case entity.KindProduct:
		p, ok := f.s.products[id]
		if !ok || p.DeletedAt != nil {
			return nil, nil
		}
		owner = p.EnterpriseID
	case entity.KindWarehouse:
		w, ok := f.s.warehouses[id]
		if !ok || w.DeletedAt != nil {
			return nil, nil
		}
		owner = w.EnterpriseID
	case entity.KindSupplier:
		sp, ok := f.s.suppliers[id]
		if !ok {
			return nil, nil
		}
		owner = sp.EnterpriseID
	case entity.KindLot:
		l, ok := f.s.lots[id]
		if !ok {
			return nil, nil
		}
		owner = l.EnterpriseID
	default:
		return nil, fmt.Errorf("memory: tipo de entidad desconocido %q", kind)
	}
	if owner != enterpriseID {
		return nil, nil
	}
	return &entity.Ref{Kind: kind, ID: id, EnterpriseID: enterpriseID}, nil
}

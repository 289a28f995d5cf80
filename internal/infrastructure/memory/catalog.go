package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct{ s *Store }

// WarehouseRepo implementa repository.WarehouseRepository en memoria.
type WarehouseRepo struct{ s *Store }

// EnterpriseRepo implementa repository.EnterpriseRepository en memoria.
type EnterpriseRepo struct{ s *Store }

// SupplierRepo implementa repository.SupplierRepository en memoria.
type SupplierRepo struct{ s *Store }

// LotRepo implementa repository.LotRepository en memoria.
type LotRepo struct{ s *Store }

var (
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.WarehouseRepository  = (*WarehouseRepo)(nil)
	_ repository.EnterpriseRepository = (*EnterpriseRepo)(nil)
	_ repository.SupplierRepository   = (*SupplierRepo)(nil)
	_ repository.LotRepository        = (*LotRepo)(nil)
)

func (s *Store) Products() *ProductRepo       { return &ProductRepo{s} }
func (s *Store) Warehouses() *WarehouseRepo   { return &WarehouseRepo{s} }
func (s *Store) Enterprises() *EnterpriseRepo { return &EnterpriseRepo{s} }
func (s *Store) Suppliers() *SupplierRepo     { return &SupplierRepo{s} }
func (s *Store) Lots() *LotRepo               { return &LotRepo{s} }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.Duplicate("producto duplicado: " + p.ID)
	}
	for _, other := range r.s.products {
		if other.EnterpriseID == p.EnterpriseID && other.SKU == p.SKU && other.DeletedAt == nil {
			return domain.Duplicate("sku duplicado: " + p.SKU)
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, enterpriseID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.EnterpriseID != enterpriseID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetBySKU(ctx context.Context, enterpriseID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.EnterpriseID == enterpriseID && p.SKU == sku && p.DeletedAt == nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; ok {
		return domain.Duplicate("bodega duplicada: " + w.ID)
	}
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *WarehouseRepo) ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.EnterpriseID == enterpriseID && w.DeletedAt == nil {
			cp := *w
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if offset >= len(out) {
		return []*entity.Warehouse{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *EnterpriseRepo) Upsert(ctx context.Context, e *entity.Enterprise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.enterprises[e.ID] = &cp
	return nil
}

func (r *SupplierRepo) Create(ctx context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; ok {
		return domain.Duplicate("proveedor duplicado: " + sp.ID)
	}
	cp := *sp
	r.s.suppliers[sp.ID] = &cp
	return nil
}

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lots[l.ID]; ok {
		return domain.Duplicate("lote duplicado: " + l.ID)
	}
	cp := *l
	r.s.lots[l.ID] = &cp
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// seedNamespace espacio UUIDv5 para que los IDs del seed sean estables entre corridas.
var seedNamespace = uuid.MustParse("6f1c2a0e-7d4b-4f3e-9a51-2b8e0c9d4a17")

type movementRecorder interface {
	Record(ctx context.Context, enterpriseID, userID string, in inventory.MovementInput) (*entity.StockMovement, error)
}

type catalog struct {
	enterprises repository.EnterpriseRepository
	warehouses  repository.WarehouseRepository
	suppliers   repository.SupplierRepository
	lots        repository.LotRepository
	products    repository.ProductRepository
}

type seeder struct {
	cat            catalog
	recorder       movementRecorder
	enterpriseID   string
	enterpriseName string
	userID         string
	source         string // nombre del archivo; entra en el ID de las filas sin id
	log            *logger.Logger
	now            func() time.Time

	warehouseIDs map[string]string
	supplierIDs  map[string]string
	productIDs   map[string]string
	lotIDs       map[string]string
}

type summary struct {
	Rows      int
	Recorded  int
	Products  int
	Suppliers int
}

func newSeeder(cat catalog, recorder movementRecorder, enterpriseID, enterpriseName, userID, source string, log *logger.Logger) *seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &seeder{
		cat:            cat,
		recorder:       recorder,
		enterpriseID:   enterpriseID,
		enterpriseName: enterpriseName,
		userID:         userID,
		source:         source,
		log:            log,
		now:            time.Now,
		warehouseIDs:   make(map[string]string),
		supplierIDs:    make(map[string]string),
		productIDs:     make(map[string]string),
		lotIDs:         make(map[string]string),
	}
}

func stableID(parts ...string) string {
	return uuid.NewSHA1(seedNamespace, []byte(strings.Join(parts, "|"))).String()
}

// Run da de alta el catálogo y reproduce los movimientos en orden de archivo.
// Una segunda corrida con el mismo archivo no agrega movimientos.
func (s *seeder) Run(ctx context.Context, rows []row) (summary, error) {
	sum := summary{Rows: len(rows)}
	now := s.now().UTC()
	if err := s.cat.enterprises.Upsert(ctx, &entity.Enterprise{
		ID:        s.enterpriseID,
		Name:      s.enterpriseName,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return sum, err
	}

	for _, r := range rows {
		in, created, err := s.movementFor(ctx, r)
		if err != nil {
			return sum, fmt.Errorf("línea %d: %w", r.Line, err)
		}
		sum.Products += created.products
		sum.Suppliers += created.suppliers

		m, err := s.recorder.Record(ctx, s.enterpriseID, s.userID, in)
		if err != nil {
			return sum, fmt.Errorf("línea %d: %w", r.Line, err)
		}
		// Un movimiento de una corrida anterior conserva su fecha original.
		if !m.CreatedAt.Before(now) {
			sum.Recorded++
		}
		s.log.Debug().
			Int("line", r.Line).
			Str("movement_id", m.ID).
			Str("balance", m.Balance.String()).
			Msg("fila aplicada")
	}
	return sum, nil
}

type createdCount struct {
	products  int
	suppliers int
}

func (s *seeder) movementFor(ctx context.Context, r row) (inventory.MovementInput, createdCount, error) {
	var created createdCount
	warehouseID, err := s.ensureWarehouse(ctx, r.Warehouse)
	if err != nil {
		return inventory.MovementInput{}, created, err
	}
	productID, isNew, err := s.ensureProduct(ctx, r.SKU, r.ProductName)
	if err != nil {
		return inventory.MovementInput{}, created, err
	}
	if isNew {
		created.products++
	}

	in := inventory.MovementInput{
		ID:          r.ID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Direction:   entity.Direction(r.Direction),
		Source:      entity.Source(r.Source),
		Quantity:    r.Quantity,
		UnitCost:    r.UnitCost,
		Reference:   optional(r.Reference),
		Notes:       optional(r.Notes),
	}
	if in.ID == "" {
		in.ID = stableID("movement", s.enterpriseID, s.source, fmt.Sprint(r.Line))
	}
	if r.Supplier != "" {
		id, isNew, err := s.ensureSupplier(ctx, r.Supplier)
		if err != nil {
			return inventory.MovementInput{}, created, err
		}
		if isNew {
			created.suppliers++
		}
		in.SupplierID = &id
	}
	if r.Lot != "" {
		id, err := s.ensureLot(ctx, productID, r.Lot)
		if err != nil {
			return inventory.MovementInput{}, created, err
		}
		in.LotID = &id
	}
	return in, created, nil
}

func (s *seeder) ensureWarehouse(ctx context.Context, name string) (string, error) {
	if id, ok := s.warehouseIDs[name]; ok {
		return id, nil
	}
	now := s.now().UTC()
	id := stableID("warehouse", s.enterpriseID, name)
	err := s.cat.warehouses.Create(ctx, &entity.Warehouse{
		ID: id, EnterpriseID: s.enterpriseID, Name: name, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return "", err
	}
	s.warehouseIDs[name] = id
	return id, nil
}

func (s *seeder) ensureSupplier(ctx context.Context, name string) (string, bool, error) {
	if id, ok := s.supplierIDs[name]; ok {
		return id, false, nil
	}
	id := stableID("supplier", s.enterpriseID, name)
	err := s.cat.suppliers.Create(ctx, &entity.Supplier{
		ID: id, EnterpriseID: s.enterpriseID, Name: name, CreatedAt: s.now().UTC(),
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return "", false, err
	}
	s.supplierIDs[name] = id
	return id, err == nil, nil
}

func (s *seeder) ensureProduct(ctx context.Context, sku, name string) (string, bool, error) {
	if id, ok := s.productIDs[sku]; ok {
		return id, false, nil
	}
	existing, err := s.cat.products.GetBySKU(ctx, s.enterpriseID, sku)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		s.productIDs[sku] = existing.ID
		return existing.ID, false, nil
	}
	if name == "" {
		name = sku
	}
	now := s.now().UTC()
	p := &entity.Product{
		ID:           stableID("product", s.enterpriseID, sku),
		EnterpriseID: s.enterpriseID,
		SKU:          sku,
		Name:         name,
		UnitMeasure:  "UND",
		Price:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.cat.products.Create(ctx, p); err != nil {
		return "", false, err
	}
	s.productIDs[sku] = p.ID
	return p.ID, true, nil
}

func (s *seeder) ensureLot(ctx context.Context, productID, code string) (string, error) {
	key := productID + "|" + code
	if id, ok := s.lotIDs[key]; ok {
		return id, nil
	}
	id := stableID("lot", s.enterpriseID, productID, code)
	err := s.cat.lots.Create(ctx, &entity.Lot{
		ID: id, EnterpriseID: s.enterpriseID, ProductID: productID, Code: code, CreatedAt: s.now().UTC(),
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return "", err
	}
	s.lotIDs[key] = id
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

const (
	ent      = "ent-1"
	otherEnt = "ent-2"
	user     = "user-1"
	prodA    = "prod-a"
	prodB    = "prod-b"
	prodC    = "prod-c"
	prodX    = "prod-x" // de otra empresa
	wh       = "wh-1"
	supplier = "sup-1"
	lot      = "lot-1"
)

type fakeMetrics struct {
	mu       sync.Mutex
	recorded int
	rejected map[string]int
}

func (f *fakeMetrics) MovementRecorded(entity.Source, entity.Direction, decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded++
}

func (f *fakeMetrics) MovementRejected(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejected == nil {
		f.rejected = make(map[string]int)
	}
	f.rejected[code]++
}

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	metrics *fakeMetrics
	writer  *inventory.RecordMovementUseCase
	query   *inventory.MovementQueryUseCase
	orders  *inventory.FulfillmentUseCase
}

func newFixture(t *testing.T, cfg inventory.WriterConfig) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	for _, p := range []*entity.Product{
		{ID: prodA, EnterpriseID: ent, SKU: "A", Name: "Café pergamino"},
		{ID: prodB, EnterpriseID: ent, SKU: "B", Name: "Café tostado"},
		{ID: prodC, EnterpriseID: ent, SKU: "C", Name: "Empaque"},
		{ID: prodX, EnterpriseID: otherEnt, SKU: "X", Name: "Ajeno"},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: wh, EnterpriseID: ent, Name: "Principal"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplier, EnterpriseID: ent, Name: "Finca"}))
	require.NoError(t, store.Lots().Create(ctx, &entity.Lot{ID: lot, EnterpriseID: ent, ProductID: prodA, Code: "L-01"}))

	metrics := &fakeMetrics{}
	writer := inventory.NewRecordMovementUseCase(store, cfg, metrics, nil)
	return &fixture{
		ctx:     ctx,
		store:   store,
		metrics: metrics,
		writer:  writer,
		query:   inventory.NewMovementQueryUseCase(store, store.Movements(), store.Stock(), store.Finder()),
		orders:  inventory.NewFulfillmentUseCase(writer),
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func (f *fixture) stock(t *testing.T, productID string) *entity.StockAggregate {
	t.Helper()
	agg, err := f.query.GetStock(f.ctx, ent, productID)
	require.NoError(t, err)
	return agg
}

func (f *fixture) movements(t *testing.T, productID string) []*entity.StockMovement {
	t.Helper()
	all, err := f.store.Movements().ListAllByProduct(f.ctx, ent, productID)
	require.NoError(t, err)
	return all
}

func (f *fixture) adjust(t *testing.T, productID, target string) *entity.StockMovement {
	t.Helper()
	m, err := f.writer.Adjust(f.ctx, ent, user, inventory.AdjustInput{
		ProductID: productID, WarehouseID: wh, TargetQuantity: d(target),
	})
	require.NoError(t, err)
	return m
}

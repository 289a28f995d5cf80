package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

const testEnterprise = "00000000-0000-4000-8000-0000000000e1"

const seedCSV = `sku,product_name,warehouse,supplier,lot,direction,source,quantity,unit_cost,reference
CAF-01,Café,Principal,Finca La Esperanza,,IN,PURCHASE,10,2,PO-1
CAF-01,,Principal,,L-1,IN,HARVEST,5,,
CAF-01,,Principal,,,OUT,SALE,4,,SO-1
AZU-01,Azúcar,Principal,Finca La Esperanza,,IN,PURCHASE,3,1,PO-2
`

func newTestSeeder(store *memory.Store) *seeder {
	recorder := inventory.NewRecordMovementUseCase(store, inventory.WriterConfig{AllowNegative: true, AllowClientIDs: true}, nil, nil)
	return newSeeder(catalog{
		enterprises: store.Enterprises(),
		warehouses:  store.Warehouses(),
		suppliers:   store.Suppliers(),
		lots:        store.Lots(),
		products:    store.Products(),
	}, recorder, testEnterprise, "Dev", "user-1", "movements.csv", nil)
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rows, err := readCSV(strings.NewReader(seedCSV), false)
	require.NoError(t, err)

	sum, err := newTestSeeder(store).Run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Rows)
	assert.Equal(t, 4, sum.Recorded)
	assert.Equal(t, 2, sum.Products)
	assert.Equal(t, 1, sum.Suppliers)

	coffee, err := store.Products().GetBySKU(ctx, testEnterprise, "CAF-01")
	require.NoError(t, err)
	require.NotNil(t, coffee)
	assert.Equal(t, "Café", coffee.Name)

	agg, err := store.Stock().Get(ctx, testEnterprise, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, "11", agg.Quantity.String())
	assert.Equal(t, int64(3), agg.LastSequence)
}

func TestSeeder_SegundaCorridaNoDuplica(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	rows, err := readCSV(strings.NewReader(seedCSV), false)
	require.NoError(t, err)

	_, err = newTestSeeder(store).Run(ctx, rows)
	require.NoError(t, err)
	sum, err := newTestSeeder(store).Run(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Recorded)
	assert.Equal(t, 0, sum.Products)
	assert.Equal(t, 0, sum.Suppliers)

	sugar, err := store.Products().GetBySKU(ctx, testEnterprise, "AZU-01")
	require.NoError(t, err)
	all, err := store.Movements().ListAllByProduct(ctx, testEnterprise, sugar.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSeeder_FilaInvalidaIndicaLinea(t *testing.T) {
	store := memory.NewStore()
	rows, err := readCSV(strings.NewReader("sku,warehouse,direction,source,quantity\nCAF-01,Principal,IN,GIFT,1\n"), false)
	require.NoError(t, err)

	_, err = newTestSeeder(store).Run(context.Background(), rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestStableID(t *testing.T) {
	assert.Equal(t, stableID("product", "e", "A"), stableID("product", "e", "A"))
	assert.NotEqual(t, stableID("product", "e", "A"), stableID("product", "e", "B"))
}

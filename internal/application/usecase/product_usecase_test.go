package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Store, *usecase.ProductUseCase, string) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Warehouses().Create(context.Background(), &entity.Warehouse{ID: "wh-1", EnterpriseID: "ent-1", Name: "Principal"}))
	writer := inventory.NewRecordMovementUseCase(store, inventory.WriterConfig{AllowNegative: true}, nil, nil)
	return store, usecase.NewProductUseCase(store.Products(), writer), "wh-1"
}

func TestProductCreate_ConApertura(t *testing.T) {
	store, uc, wh := setup(t)
	qty := decimal.RequireFromString("15.5")

	out, err := uc.Create(context.Background(), "ent-1", "user-1", dto.CreateProductRequest{
		SKU: "CAF-01", Name: "Café", OpeningQuantity: &qty, OpeningWarehouseID: wh,
	})
	require.NoError(t, err)
	require.NotNil(t, out.OpeningBalance)
	assert.Equal(t, string(entity.SourceAdjustment), out.OpeningBalance.Source)
	assert.Equal(t, string(entity.DirectionIn), out.OpeningBalance.Direction)
	assert.Equal(t, "15.5", out.OpeningBalance.Balance.String())
	assert.Equal(t, usecase.OpeningNote, *out.OpeningBalance.Notes)
	assert.Equal(t, "UND", out.UnitMeasure)

	agg, err := store.Stock().Get(context.Background(), "ent-1", out.ID)
	require.NoError(t, err)
	assert.Equal(t, "15.5", agg.Quantity.String())
}

func TestProductCreate_SinApertura(t *testing.T) {
	store, uc, _ := setup(t)
	zero := decimal.Zero

	out, err := uc.Create(context.Background(), "ent-1", "user-1", dto.CreateProductRequest{SKU: "X", Name: "X", OpeningQuantity: &zero})
	require.NoError(t, err)
	assert.Nil(t, out.OpeningBalance)

	movs, err := store.Movements().ListAllByProduct(context.Background(), "ent-1", out.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestProductCreate_Errores(t *testing.T) {
	_, uc, wh := setup(t)
	ctx := context.Background()
	neg := decimal.RequireFromString("-1")
	qty := decimal.RequireFromString("1")

	_, err := uc.Create(ctx, "ent-1", "u", dto.CreateProductRequest{SKU: "", Name: "X"})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = uc.Create(ctx, "ent-1", "u", dto.CreateProductRequest{SKU: "A", Name: "A", OpeningQuantity: &neg, OpeningWarehouseID: wh})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = uc.Create(ctx, "ent-1", "u", dto.CreateProductRequest{SKU: "A", Name: "A", OpeningQuantity: &qty})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = uc.Create(ctx, "ent-1", "u", dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "ent-1", "u", dto.CreateProductRequest{SKU: "A", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestWarehouseUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewWarehouseUseCase(store.Warehouses())
	ctx := context.Background()

	_, err := uc.Create(ctx, "ent-1", dto.CreateWarehouseRequest{Name: "  "})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	for _, n := range []string{"Norte", "Bodega Sur"} {
		_, err := uc.Create(ctx, "ent-1", dto.CreateWarehouseRequest{Name: n})
		require.NoError(t, err)
	}
	_, err = uc.Create(ctx, "ent-2", dto.CreateWarehouseRequest{Name: "Ajena"})
	require.NoError(t, err)

	list, err := uc.List(ctx, "ent-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Bodega Sur", list.Items[0].Name)
	assert.Equal(t, 20, list.Page.Limit)
}

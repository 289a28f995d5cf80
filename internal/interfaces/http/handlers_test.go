package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

const (
	coffeeID = "10000000-0000-4000-8000-000000000001"
	sugarID  = "10000000-0000-4000-8000-000000000002"
	mainWH   = "20000000-0000-4000-8000-000000000001"
	farmID   = "30000000-0000-4000-8000-000000000001"
)

type testServer struct {
	app   *fiber.App
	admin string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: coffeeID, EnterpriseID: testEnterpriseID, SKU: "CAF-01", Name: "Café"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: sugarID, EnterpriseID: testEnterpriseID, SKU: "AZU-01", Name: "Azúcar"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: mainWH, EnterpriseID: testEnterpriseID, Name: "Principal"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: farmID, EnterpriseID: testEnterpriseID, Name: "Finca"}))

	reg := metrics.NewRegistry()
	ledgerMetrics := metrics.NewLedger(reg)
	writer := inventory.NewRecordMovementUseCase(store, inventory.WriterConfig{AllowNegative: true, AllowClientIDs: true}, ledgerMetrics, nil)

	app := apphttp.NewApp("test", logger.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:        "test",
		Recorder:       writer,
		Query:          inventory.NewMovementQueryUseCase(store, store.Movements(), store.Stock(), store.Finder()),
		Fulfillment:    inventory.NewFulfillmentUseCase(writer),
		ProductUC:      usecase.NewProductUseCase(store.Products(), writer),
		WarehouseUC:    usecase.NewWarehouseUseCase(store.Warehouses()),
		JWTSecret:      testJWTSecret,
		MetricsHandler: metrics.Handler(reg),
	})
	return &testServer{app: app, admin: tokenForRole(t, apphttp.RoleAdmin)}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (s *testServer) adjust(t *testing.T, productID, target string) dto.MovementResponse {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/api/inventory/adjustments", s.admin, map[string]any{
		"product_id": productID, "warehouse_id": mainWH, "target_quantity": target,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	return decode[dto.MovementResponse](t, raw)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"ok"`)
}

func TestAPI_RequiereToken(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdjust_CreaMovimientoYActualizaStock(t *testing.T) {
	s := newTestServer(t)
	m := s.adjust(t, coffeeID, "10")
	assert.Equal(t, "IN", m.Direction)
	assert.Equal(t, "ADJUSTMENT", m.Source)
	assert.True(t, m.Quantity.Equal(d("10")))
	assert.True(t, m.Balance.Equal(d("10")))
	assert.Equal(t, int64(1), m.Sequence)

	m = s.adjust(t, coffeeID, "7.5")
	assert.Equal(t, "OUT", m.Direction)
	assert.True(t, m.Quantity.Equal(d("2.5")))

	resp, raw := s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/stock", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decode[dto.StockResponse](t, raw)
	assert.True(t, stock.Quantity.Equal(d("7.5")))
	assert.Equal(t, int64(2), stock.LastSequence)
}

func TestAdjust_MismoObjetivoEsNoChange(t *testing.T) {
	s := newTestServer(t)
	s.adjust(t, coffeeID, "4")
	resp, raw := s.do(t, http.MethodPost, "/api/inventory/adjustments", s.admin, map[string]any{
		"product_id": coffeeID, "warehouse_id": mainWH, "target_quantity": "4",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_CHANGE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestErrores_CodigosYStatus(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "cosecha en cero",
			path:   "/api/inventory/harvests",
			body:   map[string]any{"product_id": coffeeID, "warehouse_id": mainWH, "quantity": "0"},
			status: http.StatusUnprocessableEntity,
			code:   "INVALID_QUANTITY",
		},
		{
			name: "producto inexistente",
			path: "/api/inventory/movements",
			body: map[string]any{
				"product_id": "99999999-0000-4000-8000-000000000000", "warehouse_id": mainWH,
				"direction": "IN", "source": "PURCHASE", "quantity": "1",
			},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name: "origen desconocido",
			path: "/api/inventory/movements",
			body: map[string]any{
				"product_id": coffeeID, "warehouse_id": mainWH,
				"direction": "IN", "source": "GIFT", "quantity": "1",
			},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "json inválido",
			path:   "/api/inventory/movements",
			body:   `{"product_id":`,
			status: http.StatusBadRequest,
			code:   "INVALID_BODY",
		},
		{
			name:   "ajuste sin objetivo",
			path:   "/api/inventory/adjustments",
			body:   map[string]any{"product_id": coffeeID, "warehouse_id": mainWH},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "ajuste con objetivo null",
			path:   "/api/inventory/adjustments",
			body:   map[string]any{"product_id": coffeeID, "warehouse_id": mainWH, "target_quantity": nil},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "ajuste con cinco decimales",
			path:   "/api/inventory/adjustments",
			body:   map[string]any{"product_id": coffeeID, "warehouse_id": mainWH, "target_quantity": "7.25005"},
			status: http.StatusBadRequest,
			code:   "VALIDATION",
		},
		{
			name:   "movimiento sin cantidad",
			path:   "/api/inventory/movements",
			body:   map[string]any{"product_id": coffeeID, "warehouse_id": mainWH, "direction": "IN", "source": "PURCHASE"},
			status: http.StatusUnprocessableEntity,
			code:   "INVALID_QUANTITY",
		},
		{
			name:   "cantidad no numérica",
			path:   "/api/inventory/movements",
			body:   `{"product_id":"` + coffeeID + `","warehouse_id":"` + mainWH + `","direction":"IN","source":"PURCHASE","quantity":"abc"}`,
			status: http.StatusBadRequest,
			code:   "INVALID_BODY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := s.do(t, http.MethodPost, tt.path, s.admin, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(raw))
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, raw).Code)
		})
	}
}

func TestAdjust_SinObjetivoNoTocaStock(t *testing.T) {
	s := newTestServer(t)
	s.adjust(t, coffeeID, "40")

	for _, body := range []string{
		`{"product_id":"` + coffeeID + `","warehouse_id":"` + mainWH + `"}`,
		`{"product_id":"` + coffeeID + `","warehouse_id":"` + mainWH + `","target_quantity":null}`,
		`{"product_id":"` + coffeeID + `","warehouse_id":"` + mainWH + `","target_quantiy":"0"}`,
	} {
		resp, raw := s.do(t, http.MethodPost, "/api/inventory/adjustments", s.admin, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code, body)
	}

	resp, raw := s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/stock", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decode[dto.StockResponse](t, raw)
	assert.True(t, stock.Quantity.Equal(d("40")), stock.Quantity.String())
	assert.Equal(t, int64(1), stock.LastSequence)
}

func TestRecordMovement_IDDelClienteEsIdempotente(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{
		"id":         "40000000-0000-4000-8000-000000000001",
		"product_id": coffeeID, "warehouse_id": mainWH, "supplier_id": farmID,
		"direction": "in", "source": "purchase", "quantity": "3", "unit_cost": "2.5",
	}
	resp, raw := s.do(t, http.MethodPost, "/api/inventory/movements", s.admin, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	first := decode[dto.MovementResponse](t, raw)

	resp, raw = s.do(t, http.MethodPost, "/api/inventory/movements", s.admin, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	again := decode[dto.MovementResponse](t, raw)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Sequence, again.Sequence)

	_, raw = s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/stock", s.admin, nil)
	stock := decode[dto.StockResponse](t, raw)
	assert.True(t, stock.Quantity.Equal(d("3")))
	assert.True(t, stock.UnitCost.Equal(d("2.5")))
}

func TestRecordBatch(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.do(t, http.MethodPost, "/api/inventory/movements/batch", s.admin, map[string]any{
		"movements": []map[string]any{
			{"product_id": sugarID, "warehouse_id": mainWH, "direction": "IN", "source": "HARVEST", "quantity": "5"},
			{"product_id": coffeeID, "warehouse_id": mainWH, "direction": "IN", "source": "HARVEST", "quantity": "2"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	out := decode[dto.BatchMovementResponse](t, raw)
	require.Len(t, out.Movements, 2)
	assert.Equal(t, sugarID, out.Movements[0].ProductID)
	assert.Equal(t, coffeeID, out.Movements[1].ProductID)
}

func TestListMovements(t *testing.T) {
	s := newTestServer(t)
	s.adjust(t, coffeeID, "10")
	s.adjust(t, coffeeID, "6")
	s.adjust(t, coffeeID, "9")

	resp, raw := s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/movements?limit=2", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	page := decode[dto.MovementListResponse](t, raw)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].Sequence)

	resp, raw = s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/movements?direction=out", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	page = decode[dto.MovementListResponse](t, raw)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Quantity.Equal(d("4")))

	for _, q := range []string{"limit=abc", "limit=500", "page=-1", "sort=id", "order=up"} {
		resp, raw = s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/movements?"+q, s.admin, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code, q)
	}
}

func TestReconcile_Consistente(t *testing.T) {
	s := newTestServer(t)
	s.adjust(t, coffeeID, "8")
	s.adjust(t, coffeeID, "3")

	resp, raw := s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/reconciliation", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	report := decode[dto.ReconciliationResponse](t, raw)
	assert.True(t, report.Consistent)
	assert.Equal(t, 2, report.MovementCount)
	assert.Empty(t, report.Discrepancies)
	assert.True(t, report.Replayed.Quantity.Equal(d("3")))
}

func TestFulfillment_VentaCompraProduccion(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(t, http.MethodPost, "/api/purchases/receipts", s.admin, map[string]any{
		"order_code": "PO-77", "supplier_id": farmID, "warehouse_id": mainWH,
		"lines": []map[string]any{{"product_id": sugarID, "quantity": "20", "unit_cost": "1.2"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	receipt := decode[dto.OrderMovementsResponse](t, raw)
	require.Len(t, receipt.Movements, 1)
	require.NotNil(t, receipt.Movements[0].Reference)
	assert.Equal(t, "PO-77", *receipt.Movements[0].Reference)

	resp, raw = s.do(t, http.MethodPost, "/api/production/runs", s.admin, map[string]any{
		"order_code": "OP-1", "warehouse_id": mainWH,
		"inputs": []map[string]any{{"product_id": sugarID, "quantity": "5"}},
		"output": map[string]any{"product_id": coffeeID, "quantity": "4"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	run := decode[dto.OrderMovementsResponse](t, raw)
	require.Len(t, run.Movements, 2)
	assert.Equal(t, "OUT", run.Movements[0].Direction)
	assert.Equal(t, "IN", run.Movements[1].Direction)

	resp, raw = s.do(t, http.MethodPost, "/api/sales/shipments", s.admin, map[string]any{
		"order_code": "SO-9", "warehouse_id": mainWH,
		"lines": []map[string]any{{"product_id": coffeeID, "quantity": "1"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	sale := decode[dto.OrderMovementsResponse](t, raw)
	assert.Equal(t, "SALE", sale.Movements[0].Source)
	assert.True(t, sale.Movements[0].Balance.Equal(d("3")))
}

func TestEscritura_RolSoloLectura(t *testing.T) {
	s := newTestServer(t)
	viewer := tokenForRole(t, "viewer")
	resp, _ := s.do(t, http.MethodPost, "/api/inventory/adjustments", viewer, map[string]any{
		"product_id": coffeeID, "warehouse_id": mainWH, "target_quantity": "1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/inventory/products/"+coffeeID+"/stock", viewer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProducts_CrearConApertura(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.do(t, http.MethodPost, "/api/products", s.admin, map[string]any{
		"sku": "MIEL-1", "name": "Miel", "price": "12000",
		"opening_quantity": "15", "opening_warehouse_id": mainWH,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	product := decode[dto.ProductResponse](t, raw)
	require.NotNil(t, product.OpeningBalance)
	assert.True(t, product.OpeningBalance.Balance.Equal(d("15")))

	resp, raw = s.do(t, http.MethodPost, "/api/products", s.admin, map[string]any{"sku": "MIEL-1", "name": "Otra"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestWarehouses_CrearYListar(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.do(t, http.MethodPost, "/api/warehouses", s.admin, map[string]any{"name": "Secadero"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = s.do(t, http.MethodGet, "/api/warehouses", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.WarehouseListResponse](t, raw)
	assert.Len(t, list.Items, 2)
}

func TestMetrics_ExponeContadores(t *testing.T) {
	s := newTestServer(t)
	s.adjust(t, coffeeID, "2")

	resp, raw := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `inventory_ledger_movements_recorded_total{direction="IN",source="ADJUSTMENT"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apphttp.StatusFor("NOT_FOUND"))
	assert.Equal(t, http.StatusConflict, apphttp.StatusFor("CONFLICT"))
	assert.Equal(t, http.StatusInternalServerError, apphttp.StatusFor("INTERNAL"))
	assert.Equal(t, http.StatusInternalServerError, apphttp.StatusFor("X"))
}

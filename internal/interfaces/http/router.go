package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	Recorder    *inventory.RecordMovementUseCase
	Query       *inventory.MovementQueryUseCase
	Fulfillment *inventory.FulfillmentUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	JWTSecret   string

	// MetricsHandler nil deshabilita la ruta de métricas.
	MetricsHandler nethttp.Handler
	MetricsPath    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(RoleAdmin, RoleOperator)

	// Libro de inventario
	invHandler := NewInventoryHandler(deps.Recorder, deps.Query)
	inv := api.Group("/inventory")
	inv.Post("/adjustments", writer, invHandler.Adjust)
	inv.Post("/harvests", writer, invHandler.Harvest)
	inv.Post("/movements", writer, invHandler.RecordMovement)
	inv.Post("/movements/batch", writer, invHandler.RecordBatch)
	inv.Get("/products/:productId/movements", invHandler.ListMovements)
	inv.Get("/products/:productId/stock", invHandler.GetStock)
	inv.Get("/products/:productId/reconciliation", invHandler.Reconcile)

	// Ventas, compras y producción
	fulfillment := NewFulfillmentHandler(deps.Fulfillment)
	api.Post("/sales/shipments", writer, fulfillment.Ship)
	api.Post("/purchases/receipts", writer, fulfillment.Receive)
	api.Post("/production/runs", writer, fulfillment.Produce)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	api.Post("/products", writer, productHandler.Create)

	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	api.Post("/warehouses", writer, warehouseHandler.Create)
	api.Get("/warehouses", warehouseHandler.List)
}

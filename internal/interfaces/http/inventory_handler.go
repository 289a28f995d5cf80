package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	recorder *inventory.RecordMovementUseCase
	query    *inventory.MovementQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(recorder *inventory.RecordMovementUseCase, query *inventory.MovementQueryUseCase) *InventoryHandler {
	return &InventoryHandler{recorder: recorder, query: query}
}

// Adjust godoc
// @Summary      Ajustar stock a una cantidad objetivo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, warehouse_id, target_quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.AdjustFromRequest(c.UserContext(), GetEnterpriseID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Harvest godoc
// @Summary      Registrar cosecha (entrada HARVEST)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HarvestRequest  true  "product_id, warehouse_id, quantity, lot_id opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/harvests [post]
func (h *InventoryHandler) Harvest(c *fiber.Ctx) error {
	var in dto.HarvestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.HarvestFromRequest(c.UserContext(), GetEnterpriseID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "direction IN|OUT, source, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.RecordFromRequest(c.UserContext(), GetEnterpriseID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordBatch godoc
// @Summary      Registrar varios movimientos en una sola transacción
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchMovementRequest  true  "movements"
// @Success      201   {object}  dto.BatchMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/batch [post]
func (h *InventoryHandler) RecordBatch(c *fiber.Ctx) error {
	var in dto.BatchMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.RecordBatchFromRequest(c.UserContext(), GetEnterpriseID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "ID del producto"
// @Param        page          query  int     false  "Página (desde 1)"  default(1)
// @Param        limit         query  int     false  "Tamaño de página"  default(20)
// @Param        sort          query  string  false  "created_at|quantity|balance|unit_cost|direction|source"
// @Param        order         query  string  false  "asc|desc"  default(desc)
// @Param        reference     query  string  false  "Subcadena de la referencia"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        direction     query  string  false  "IN|OUT"
// @Param        source        query  string  false  "Origen"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{productId}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return writeError(c, err)
	}
	filter := inventory.ListFilter{
		Page:        page,
		Limit:       limit,
		Sort:        c.Query("sort"),
		Order:       c.Query("order"),
		Reference:   c.Query("reference"),
		WarehouseID: c.Query("warehouse_id"),
		Direction:   entity.Direction(strings.ToUpper(strings.TrimSpace(c.Query("direction")))),
		Source:      entity.Source(strings.ToUpper(strings.TrimSpace(c.Query("source")))),
	}
	out, err := h.query.ListMovements(c.UserContext(), GetEnterpriseID(c), c.Params("productId"), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMovementListResponse(out))
}

// GetStock godoc
// @Summary      Cantidad y costo vigentes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{productId}/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	agg, err := h.query.GetStock(c.UserContext(), GetEnterpriseID(c), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToStockResponse(agg))
}

// Reconcile godoc
// @Summary      Conciliar el agregado contra el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{productId}/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.query.Reconcile(c.UserContext(), GetEnterpriseID(c), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToReconciliationResponse(report))
}

// queryInt 0 si el parámetro no viene; VALIDATION si no es un entero.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validation(key + " debe ser un entero").WithDetail(key, raw)
	}
	return n, nil
}

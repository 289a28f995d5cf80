package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// FulfillmentHandler despachos, recepciones de compra y corridas de producción.
type FulfillmentHandler struct {
	uc *inventory.FulfillmentUseCase
}

// NewFulfillmentHandler construye el handler.
func NewFulfillmentHandler(uc *inventory.FulfillmentUseCase) *FulfillmentHandler {
	return &FulfillmentHandler{uc: uc}
}

// Ship godoc
// @Summary      Despachar una venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShipmentRequest  true  "order_code, warehouse_id, lines"
// @Success      201   {object}  dto.OrderMovementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/shipments [post]
func (h *FulfillmentHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ShipSale(c.UserContext(), GetEnterpriseID(c), GetUserID(c), inventory.ShipmentInput{
		OrderCode:   in.OrderCode,
		WarehouseID: in.WarehouseID,
		Lines:       inventory.LinesFromRequest(in.Lines),
		Notes:       in.Notes,
	})
	return h.respond(c, in.OrderCode, out, err)
}

// Receive godoc
// @Summary      Recibir una compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseReceiptRequest  true  "order_code, supplier_id, warehouse_id, lines"
// @Success      201   {object}  dto.OrderMovementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/receipts [post]
func (h *FulfillmentHandler) Receive(c *fiber.Ctx) error {
	var in dto.PurchaseReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReceivePurchase(c.UserContext(), GetEnterpriseID(c), GetUserID(c), inventory.PurchaseReceiptInput{
		OrderCode:   in.OrderCode,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Lines:       inventory.LinesFromRequest(in.Lines),
		Notes:       in.Notes,
	})
	return h.respond(c, in.OrderCode, out, err)
}

// Produce godoc
// @Summary      Registrar una corrida de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRunRequest  true  "order_code, warehouse_id, inputs, output"
// @Success      201   {object}  dto.OrderMovementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/production/runs [post]
func (h *FulfillmentHandler) Produce(c *fiber.Ctx) error {
	var in dto.ProductionRunRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RunProduction(c.UserContext(), GetEnterpriseID(c), GetUserID(c), inventory.ProductionRunInput{
		OrderCode:   in.OrderCode,
		WarehouseID: in.WarehouseID,
		Inputs:      inventory.LinesFromRequest(in.Inputs),
		Output:      inventory.LineFromRequest(in.Output),
		Notes:       in.Notes,
	})
	return h.respond(c, in.OrderCode, out, err)
}

func (h *FulfillmentHandler) respond(c *fiber.Ctx, orderCode string, out []*entity.StockMovement, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderMovementsResponse{
		OrderCode: orderCode,
		Movements: inventory.ToMovementResponses(out),
	})
}

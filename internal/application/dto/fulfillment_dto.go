package dto

import "github.com/shopspring/decimal"

// OrderLineRequest renglón de una orden. unit_cost solo aplica a entradas.
type OrderLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	LotID     *string          `json:"lot_id,omitempty"`
}

// ShipmentRequest body para POST /api/sales/shipments.
type ShipmentRequest struct {
	OrderCode   string             `json:"order_code"`
	WarehouseID string             `json:"warehouse_id"`
	Lines       []OrderLineRequest `json:"lines"`
	Notes       *string            `json:"notes,omitempty"`
}

// PurchaseReceiptRequest body para POST /api/purchases/receipts.
type PurchaseReceiptRequest struct {
	OrderCode   string             `json:"order_code"`
	SupplierID  string             `json:"supplier_id"`
	WarehouseID string             `json:"warehouse_id"`
	Lines       []OrderLineRequest `json:"lines"`
	Notes       *string            `json:"notes,omitempty"`
}

// ProductionRunRequest body para POST /api/production/runs.
type ProductionRunRequest struct {
	OrderCode   string             `json:"order_code"`
	WarehouseID string             `json:"warehouse_id"`
	Inputs      []OrderLineRequest `json:"inputs"`
	Output      OrderLineRequest   `json:"output"`
	Notes       *string            `json:"notes,omitempty"`
}

// OrderMovementsResponse movimientos generados por una orden.
type OrderMovementsResponse struct {
	OrderCode string             `json:"order_code"`
	Movements []MovementResponse `json:"movements"`
}

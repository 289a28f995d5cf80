package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentRequest body para POST /api/inventory/adjustments.
// TargetQuantity es puntero: ausente o null no equivale a ajustar a cero.
type AdjustmentRequest struct {
	ProductID      string           `json:"product_id"`
	WarehouseID    string           `json:"warehouse_id"`
	TargetQuantity *decimal.Decimal `json:"target_quantity"`
	Notes          *string          `json:"notes,omitempty"`
}

// HarvestRequest body para POST /api/inventory/harvests.
type HarvestRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LotID       *string         `json:"lot_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       *string         `json:"notes,omitempty"`
}

// RecordMovementRequest body para POST /api/inventory/movements.
// ID solo se respeta fuera de producción.
type RecordMovementRequest struct {
	ID          string           `json:"id,omitempty"`
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	LotID       *string          `json:"lot_id,omitempty"`
	SupplierID  *string          `json:"supplier_id,omitempty"`
	Direction   string           `json:"direction"` // IN | OUT
	Source      string           `json:"source"`    // ADJUSTMENT | HARVEST | PURCHASE | PRODUCTION | SALE
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   *string          `json:"reference,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// MovementResponse movimiento del libro tal como se guardó.
type MovementResponse struct {
	ID           string          `json:"id"`
	EnterpriseID string          `json:"enterprise_id"`
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	LotID        *string         `json:"lot_id,omitempty"`
	SupplierID   *string         `json:"supplier_id,omitempty"`
	Direction    string          `json:"direction"`
	Source       string          `json:"source"`
	Quantity     decimal.Decimal `json:"quantity"`
	Balance      decimal.Decimal `json:"balance"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Reference    *string         `json:"reference,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	Sequence     int64           `json:"sequence"`
	CreatedBy    *string         `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementListResponse envoltura del listado de movimientos.
type MovementListResponse struct {
	Items      []MovementResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

// StockResponse agregado de stock de un producto.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LastSequence int64           `json:"last_sequence"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// DiscrepancyResponse inconsistencia encontrada al conciliar.
type DiscrepancyResponse struct {
	MovementID string          `json:"movement_id,omitempty"`
	Sequence   int64           `json:"sequence,omitempty"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Reason     string          `json:"reason"`
}

// ReconciliationResponse resultado de reproducir el libro de un producto.
type ReconciliationResponse struct {
	ProductID     string                `json:"product_id"`
	Consistent    bool                  `json:"consistent"`
	MovementCount int                   `json:"movement_count"`
	Aggregate     StockResponse         `json:"aggregate"`
	Replayed      StockResponse         `json:"replayed"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// BatchMovementRequest body para POST /api/inventory/movements/batch. Todo o nada.
type BatchMovementRequest struct {
	Movements []RecordMovementRequest `json:"movements"`
}

// BatchMovementResponse movimientos registrados, en el orden pedido.
type BatchMovementResponse struct {
	Movements []MovementResponse `json:"movements"`
}

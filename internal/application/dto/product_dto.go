package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Si OpeningQuantity viene, se registra un ajuste de apertura en OpeningWarehouseID.
type CreateProductRequest struct {
	SKU                string           `json:"sku" validate:"required,min=1,max=100"`
	Name               string           `json:"name" validate:"required,min=1,max=200"`
	UnitMeasure        string           `json:"unit_measure"`
	Price              decimal.Decimal  `json:"price"`
	OpeningQuantity    *decimal.Decimal `json:"opening_quantity,omitempty"`
	OpeningWarehouseID string           `json:"opening_warehouse_id,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string            `json:"id"`
	EnterpriseID   string            `json:"enterprise_id"`
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	UnitMeasure    string            `json:"unit_measure"`
	Price          decimal.Decimal   `json:"price"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	OpeningBalance *MovementResponse `json:"opening_movement,omitempty"`
}

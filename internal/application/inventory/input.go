package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AdjustInput ajuste a una cantidad objetivo (source ADJUSTMENT).
type AdjustInput struct {
	ProductID      string
	WarehouseID    string
	TargetQuantity decimal.Decimal
	Notes          *string
}

// HarvestInput entrada por cosecha (source HARVEST).
type HarvestInput struct {
	ProductID   string
	WarehouseID string
	LotID       *string
	Quantity    decimal.Decimal
	Notes       *string
}

// MovementInput movimiento genérico con dirección y origen explícitos.
// ID solo se respeta fuera de producción (seed y tests); en producción se ignora.
type MovementInput struct {
	ID          string
	ProductID   string
	WarehouseID string
	LotID       *string
	SupplierID  *string
	Direction   entity.Direction
	Source      entity.Source
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Reference   *string
	Notes       *string
}

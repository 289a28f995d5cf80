package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido del movimiento: IN aumenta la cantidad, OUT la disminuye.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Valid indica si la dirección es conocida.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Source motivo de negocio que originó el movimiento.
type Source string

const (
	SourceAdjustment Source = "ADJUSTMENT"
	SourceHarvest    Source = "HARVEST"
	SourcePurchase   Source = "PURCHASE"
	SourceProduction Source = "PRODUCTION"
	SourceSale       Source = "SALE"
)

// Valid indica si el origen es conocido.
func (s Source) Valid() bool {
	switch s {
	case SourceAdjustment, SourceHarvest, SourcePurchase, SourceProduction, SourceSale:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de inventario.
// Quantity es la magnitud movida (siempre > 0); Balance es la cantidad del agregado
// inmediatamente después de aplicar el movimiento.
type StockMovement struct {
	ID           string
	EnterpriseID string
	ProductID    string
	WarehouseID  string
	LotID        *string
	SupplierID   *string
	Direction    Direction
	Source       Source
	Quantity     decimal.Decimal
	Balance      decimal.Decimal
	UnitCost     decimal.Decimal
	Reference    *string
	Notes        *string
	Sequence     int64 // orden de commit por producto
	CreatedBy    *string
	CreatedAt    time.Time
}

// Signed devuelve la cantidad con signo según la dirección.
func (m *StockMovement) Signed() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

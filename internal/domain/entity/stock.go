package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAggregate cantidad y costo unitario vigentes de un producto en una empresa.
// Es la vista materializada del libro; solo el registrador de movimientos la modifica.
type StockAggregate struct {
	EnterpriseID string
	ProductID    string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	LastSequence int64
	UpdatedAt    time.Time
}

// NewStockAggregate agregado vacío (cantidad 0, costo 0) para un producto sin movimientos.
func NewStockAggregate(enterpriseID, productID string) *StockAggregate {
	return &StockAggregate{
		EnterpriseID: enterpriseID,
		ProductID:    productID,
		Quantity:     decimal.Zero,
		UnitCost:     decimal.Zero,
	}
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto inventariable de una empresa. La identidad es inmutable;
// cantidad y costo viven en StockAggregate y se modifican solo vía movimientos.
type Product struct {
	ID           string
	EnterpriseID string
	SKU          string
	Name         string
	UnitMeasure  string
	Price        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

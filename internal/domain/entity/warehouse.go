package entity

import "time"

// Warehouse bodega física o lógica de una empresa. Todo movimiento referencia exactamente una.
type Warehouse struct {
	ID           string
	EnterpriseID string
	Name         string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

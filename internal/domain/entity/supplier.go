package entity

import "time"

// Supplier proveedor de una empresa (referencia opcional en compras).
type Supplier struct {
	ID           string
	EnterpriseID string
	Name         string
	TaxID        string
	CreatedAt    time.Time
}

package entity

import "time"

// Lot lote (p. ej. cosecha). Informativo: no interviene en el cálculo del saldo.
type Lot struct {
	ID           string
	EnterpriseID string
	ProductID    string
	Code         string
	CreatedAt    time.Time
}

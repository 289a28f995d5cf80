package entity

import "time"

// Enterprise tenant del sistema. Toda entidad y movimiento pertenece a una.
type Enterprise struct {
	ID        string
	Name      string
	TaxID     string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

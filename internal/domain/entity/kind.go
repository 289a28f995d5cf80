package entity

// Kind tipo de entidad referenciable por un movimiento.
type Kind string

const (
	KindProduct   Kind = "product"
	KindWarehouse Kind = "warehouse"
	KindSupplier  Kind = "supplier"
	KindLot       Kind = "lot"
)

// Ref referencia mínima a una entidad activa de una empresa.
type Ref struct {
	Kind         Kind
	ID           string
	EnterpriseID string
}

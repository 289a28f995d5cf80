package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// EntityFinder búsqueda de entidades activas acotada por empresa.
type EntityFinder interface {
	// FindActiveEntity devuelve nil, nil si la entidad no existe, está dada de baja o es de otra empresa.
	FindActiveEntity(ctx context.Context, kind entity.Kind, id, enterpriseID string) (*entity.Ref, error)
}

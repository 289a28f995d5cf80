package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// ReconciliationReport compara el agregado guardado con el que resulta de reproducir el libro.
type ReconciliationReport struct {
	Aggregate     *entity.StockAggregate
	Replayed      *entity.StockAggregate
	MovementCount int
	Consistent    bool
	Discrepancies []inventory.Discrepancy
}

// GetStock devuelve el agregado del producto (cantidad 0 y costo 0 si aún no tiene movimientos).
func (uc *MovementQueryUseCase) GetStock(ctx context.Context, enterpriseID, productID string) (*entity.StockAggregate, error) {
	if err := uc.requireProduct(ctx, enterpriseID, productID); err != nil {
		return nil, err
	}
	return uc.stockRepo.Get(ctx, enterpriseID, productID)
}

// Reconcile reproduce el libro del producto y verifica que cada saldo encadene con el anterior
// y que el último coincida con el agregado. Bloquea el agregado mientras lee para no observar
// una escritura a medias; no crea la fila si el producto nunca tuvo movimientos.
func (uc *MovementQueryUseCase) Reconcile(ctx context.Context, enterpriseID, productID string) (*ReconciliationReport, error) {
	var report *ReconciliationReport
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockRepository,
		finder repository.EntityFinder,
	) error {
		ref, err := finder.FindActiveEntity(ctx, entity.KindProduct, productID, enterpriseID)
		if err != nil {
			return err
		}
		if ref == nil {
			return notFoundProduct(productID)
		}
		agg, err := stockRepo.GetLocked(ctx, enterpriseID, productID)
		if err != nil {
			return err
		}
		movements, err := movRepo.ListAllByProduct(ctx, enterpriseID, productID)
		if err != nil {
			return err
		}
		discrepancies := inventory.Verify(movements, agg)
		report = &ReconciliationReport{
			Aggregate:     agg,
			Replayed:      inventory.Replay(enterpriseID, productID, movements),
			MovementCount: len(movements),
			Consistent:    len(discrepancies) == 0,
			Discrepancies: discrepancies,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

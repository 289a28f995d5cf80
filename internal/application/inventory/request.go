package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

// AdjustFromRequest adapta el request HTTP a Adjust. target_quantity es obligatorio.
func (uc *RecordMovementUseCase) AdjustFromRequest(ctx context.Context, enterpriseID, userID string, in dto.AdjustmentRequest) (*dto.MovementResponse, error) {
	if in.TargetQuantity == nil {
		err := domain.Validation("target_quantity es obligatorio")
		uc.reject(enterpriseID, err)
		return nil, err
	}
	m, err := uc.Adjust(ctx, enterpriseID, userID, AdjustInput{
		ProductID:      in.ProductID,
		WarehouseID:    in.WarehouseID,
		TargetQuantity: *in.TargetQuantity,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(m), nil
}

// HarvestFromRequest adapta el request HTTP a Harvest.
func (uc *RecordMovementUseCase) HarvestFromRequest(ctx context.Context, enterpriseID, userID string, in dto.HarvestRequest) (*dto.MovementResponse, error) {
	m, err := uc.Harvest(ctx, enterpriseID, userID, HarvestInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		LotID:       in.LotID,
		Quantity:    in.Quantity,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(m), nil
}

// RecordFromRequest adapta el request HTTP a Record.
func (uc *RecordMovementUseCase) RecordFromRequest(ctx context.Context, enterpriseID, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.Record(ctx, enterpriseID, userID, MovementInputFromRequest(in))
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(m), nil
}

// MovementInputFromRequest dirección y origen se aceptan sin distinguir mayúsculas.
func MovementInputFromRequest(in dto.RecordMovementRequest) MovementInput {
	return MovementInput{
		ID:          in.ID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		LotID:       in.LotID,
		SupplierID:  in.SupplierID,
		Direction:   entity.Direction(strings.ToUpper(strings.TrimSpace(in.Direction))),
		Source:      entity.Source(strings.ToUpper(strings.TrimSpace(in.Source))),
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Reference:   in.Reference,
		Notes:       in.Notes,
	}
}

// ToMovementResponse mapea un movimiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:           m.ID,
		EnterpriseID: m.EnterpriseID,
		ProductID:    m.ProductID,
		WarehouseID:  m.WarehouseID,
		LotID:        m.LotID,
		SupplierID:   m.SupplierID,
		Direction:    string(m.Direction),
		Source:       string(m.Source),
		Quantity:     m.Quantity,
		Balance:      m.Balance,
		UnitCost:     m.UnitCost,
		Reference:    m.Reference,
		Notes:        m.Notes,
		Sequence:     m.Sequence,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista; nunca devuelve nil.
func ToMovementResponses(list []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out
}

// ToMovementListResponse mapea una página del listado.
func ToMovementListResponse(p *MovementPage) *dto.MovementListResponse {
	return &dto.MovementListResponse{
		Items:      ToMovementResponses(p.Items),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// ToStockResponse mapea el agregado de stock.
func ToStockResponse(agg *entity.StockAggregate) dto.StockResponse {
	out := dto.StockResponse{
		ProductID:    agg.ProductID,
		Quantity:     agg.Quantity,
		UnitCost:     agg.UnitCost,
		LastSequence: agg.LastSequence,
	}
	if !agg.UpdatedAt.IsZero() {
		t := agg.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// ToReconciliationResponse mapea el reporte de conciliación.
func ToReconciliationResponse(r *ReconciliationReport) *dto.ReconciliationResponse {
	out := &dto.ReconciliationResponse{
		ProductID:     r.Aggregate.ProductID,
		Consistent:    r.Consistent,
		MovementCount: r.MovementCount,
		Aggregate:     ToStockResponse(r.Aggregate),
		Replayed:      ToStockResponse(r.Replayed),
		Discrepancies: make([]dto.DiscrepancyResponse, 0, len(r.Discrepancies)),
	}
	for _, d := range r.Discrepancies {
		out.Discrepancies = append(out.Discrepancies, toDiscrepancyResponse(d))
	}
	return out
}

func toDiscrepancyResponse(d inventory.Discrepancy) dto.DiscrepancyResponse {
	return dto.DiscrepancyResponse{
		MovementID: d.MovementID,
		Sequence:   d.Sequence,
		Expected:   d.Expected,
		Actual:     d.Actual,
		Reason:     d.Reason,
	}
}

// LinesFromRequest adapta los renglones de una orden.
func LinesFromRequest(in []dto.OrderLineRequest) []Line {
	out := make([]Line, 0, len(in))
	for _, l := range in {
		out = append(out, LineFromRequest(l))
	}
	return out
}

// LineFromRequest adapta un renglón.
func LineFromRequest(l dto.OrderLineRequest) Line {
	return Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost, LotID: l.LotID}
}

// RecordBatchFromRequest adapta el request HTTP a RecordBatch.
func (uc *RecordMovementUseCase) RecordBatchFromRequest(ctx context.Context, enterpriseID, userID string, in dto.BatchMovementRequest) (*dto.BatchMovementResponse, error) {
	inputs := make([]MovementInput, 0, len(in.Movements))
	for _, m := range in.Movements {
		inputs = append(inputs, MovementInputFromRequest(m))
	}
	out, err := uc.RecordBatch(ctx, enterpriseID, userID, inputs)
	if err != nil {
		return nil, err
	}
	return &dto.BatchMovementResponse{Movements: ToMovementResponses(out)}, nil
}

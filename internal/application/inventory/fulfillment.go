package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// BatchRecorder registra varios movimientos en una sola unidad de trabajo.
type BatchRecorder interface {
	RecordBatch(ctx context.Context, enterpriseID, userID string, in []MovementInput) ([]*entity.StockMovement, error)
}

// Line renglón de una orden. UnitCost solo se usa en entradas.
type Line struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	LotID     *string
}

// ShipmentInput despacho de una venta.
type ShipmentInput struct {
	OrderCode   string
	WarehouseID string
	Lines       []Line
	Notes       *string
}

// PurchaseReceiptInput recepción de una compra.
type PurchaseReceiptInput struct {
	OrderCode   string
	SupplierID  string
	WarehouseID string
	Lines       []Line
	Notes       *string
}

// ProductionRunInput corrida de producción: consume insumos y produce un terminado.
type ProductionRunInput struct {
	OrderCode   string
	WarehouseID string
	Inputs      []Line
	Output      Line
	Notes       *string
}

// FulfillmentUseCase puntos de llamada de ventas, compras y producción sobre el registrador genérico.
// La referencia de cada movimiento es el código de la orden, para poder conciliar.
type FulfillmentUseCase struct {
	recorder BatchRecorder
}

// NewFulfillmentUseCase construye el caso de uso.
func NewFulfillmentUseCase(recorder BatchRecorder) *FulfillmentUseCase {
	return &FulfillmentUseCase{recorder: recorder}
}

// ShipSale registra una salida SALE por renglón.
func (uc *FulfillmentUseCase) ShipSale(ctx context.Context, enterpriseID, userID string, in ShipmentInput) ([]*entity.StockMovement, error) {
	ref, err := orderReference(in.OrderCode, len(in.Lines))
	if err != nil {
		return nil, err
	}
	batch := make([]MovementInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		batch = append(batch, MovementInput{
			ProductID:   l.ProductID,
			WarehouseID: in.WarehouseID,
			LotID:       l.LotID,
			Direction:   entity.DirectionOut,
			Source:      entity.SourceSale,
			Quantity:    l.Quantity,
			Reference:   ref,
			Notes:       in.Notes,
		})
	}
	return uc.recorder.RecordBatch(ctx, enterpriseID, userID, batch)
}

// ReceivePurchase registra una entrada PURCHASE por renglón; el costo del renglón, si viene,
// pasa a ser el costo del producto.
func (uc *FulfillmentUseCase) ReceivePurchase(ctx context.Context, enterpriseID, userID string, in PurchaseReceiptInput) ([]*entity.StockMovement, error) {
	ref, err := orderReference(in.OrderCode, len(in.Lines))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.SupplierID) == "" {
		return nil, domain.Validation("supplier_id es obligatorio")
	}
	supplierID := in.SupplierID
	batch := make([]MovementInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		batch = append(batch, MovementInput{
			ProductID:   l.ProductID,
			WarehouseID: in.WarehouseID,
			LotID:       l.LotID,
			SupplierID:  &supplierID,
			Direction:   entity.DirectionIn,
			Source:      entity.SourcePurchase,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Reference:   ref,
			Notes:       in.Notes,
		})
	}
	return uc.recorder.RecordBatch(ctx, enterpriseID, userID, batch)
}

// RunProduction registra el consumo de cada insumo (OUT) y la entrada del terminado (IN),
// todos con origen PRODUCTION y en la misma transacción. El terminado va al final del resultado.
func (uc *FulfillmentUseCase) RunProduction(ctx context.Context, enterpriseID, userID string, in ProductionRunInput) ([]*entity.StockMovement, error) {
	ref, err := orderReference(in.OrderCode, len(in.Inputs))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Output.ProductID) == "" {
		return nil, domain.Validation("output.product_id es obligatorio")
	}
	batch := make([]MovementInput, 0, len(in.Inputs)+1)
	for _, l := range in.Inputs {
		if l.ProductID == in.Output.ProductID {
			return nil, domain.Validation("el terminado no puede ser también insumo")
		}
		batch = append(batch, MovementInput{
			ProductID:   l.ProductID,
			WarehouseID: in.WarehouseID,
			LotID:       l.LotID,
			Direction:   entity.DirectionOut,
			Source:      entity.SourceProduction,
			Quantity:    l.Quantity,
			Reference:   ref,
			Notes:       in.Notes,
		})
	}
	batch = append(batch, MovementInput{
		ProductID:   in.Output.ProductID,
		WarehouseID: in.WarehouseID,
		LotID:       in.Output.LotID,
		Direction:   entity.DirectionIn,
		Source:      entity.SourceProduction,
		Quantity:    in.Output.Quantity,
		UnitCost:    in.Output.UnitCost,
		Reference:   ref,
		Notes:       in.Notes,
	})
	return uc.recorder.RecordBatch(ctx, enterpriseID, userID, batch)
}

func orderReference(code string, lines int) (*string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Validation("order_code es obligatorio")
	}
	if lines == 0 {
		return nil, domain.Validation("la orden no tiene renglones")
	}
	return &code, nil
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// OpeningNote nota del ajuste que registra la cantidad inicial de un producto nuevo.
const OpeningNote = "opening stock"

// OpeningStockRecorder registra el ajuste de apertura.
type OpeningStockRecorder interface {
	Adjust(ctx context.Context, enterpriseID, userID string, in inventory.AdjustInput) (*entity.StockMovement, error)
}

// ProductUseCase alta de productos. Cantidad y costo se manejan vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	recorder OpeningStockRecorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, recorder OpeningStockRecorder) *ProductUseCase {
	return &ProductUseCase{repo: repo, recorder: recorder}
}

// Create crea un producto. Si trae cantidad de apertura > 0 registra un ajuste a ese objetivo.
func (uc *ProductUseCase) Create(ctx context.Context, enterpriseID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.Validation("sku y name son obligatorios")
	}
	if in.Price.IsNegative() {
		return nil, domain.Validation("el precio no puede ser negativo")
	}
	opening := in.OpeningQuantity != nil && !in.OpeningQuantity.IsZero()
	if in.OpeningQuantity != nil && in.OpeningQuantity.IsNegative() {
		return nil, domain.Validation("la cantidad de apertura no puede ser negativa")
	}
	if opening && strings.TrimSpace(in.OpeningWarehouseID) == "" {
		return nil, domain.Validation("opening_warehouse_id es obligatorio con opening_quantity")
	}

	existing, err := uc.repo.GetBySKU(ctx, enterpriseID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Duplicate("ya existe un producto con ese sku").WithDetail("sku", in.SKU)
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		EnterpriseID: enterpriseID,
		SKU:          in.SKU,
		Name:         in.Name,
		UnitMeasure:  in.UnitMeasure,
		Price:        in.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	out := toProductResponse(product)
	if opening {
		note := OpeningNote
		m, err := uc.recorder.Adjust(ctx, enterpriseID, userID, inventory.AdjustInput{
			ProductID:      product.ID,
			WarehouseID:    in.OpeningWarehouseID,
			TargetQuantity: *in.OpeningQuantity,
			Notes:          &note,
		})
		if err != nil {
			return nil, err
		}
		out.OpeningBalance = inventory.ToMovementResponse(m)
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		EnterpriseID: p.EnterpriseID,
		SKU:          p.SKU,
		Name:         p.Name,
		UnitMeasure:  p.UnitMeasure,
		Price:        p.Price,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListFilter parámetros del listado de movimientos de un producto.
type ListFilter struct {
	Page        int
	Limit       int
	Sort        string // ver repository.MovementSortFields; vacío = created_at
	Order       string // asc | desc; vacío = desc
	Reference   string
	WarehouseID string
	Direction   entity.Direction
	Source      entity.Source
}

// MovementPage página del listado.
type MovementPage struct {
	Items      []*entity.StockMovement
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// MovementQueryUseCase lectura del libro y del agregado. No escribe.
type MovementQueryUseCase struct {
	txRunner  TxRunner
	movRepo   repository.StockMovementRepository
	stockRepo repository.StockRepository
	finder    repository.EntityFinder
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(
	txRunner TxRunner,
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockRepository,
	finder repository.EntityFinder,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{
		txRunner:  txRunner,
		movRepo:   movRepo,
		stockRepo: stockRepo,
		finder:    finder,
	}
}

// ListMovements devuelve los movimientos del producto paginados; por defecto los más recientes primero.
func (uc *MovementQueryUseCase) ListMovements(ctx context.Context, enterpriseID, productID string, f ListFilter) (*MovementPage, error) {
	filter, err := buildFilter(enterpriseID, productID, f)
	if err != nil {
		return nil, err
	}
	if err := uc.requireProduct(ctx, enterpriseID, productID); err != nil {
		return nil, err
	}

	items, total, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.StockMovement{}
	}
	page := filter.Offset/filter.Limit + 1
	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}
	return &MovementPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func buildFilter(enterpriseID, productID string, f ListFilter) (repository.MovementFilter, error) {
	if strings.TrimSpace(productID) == "" {
		return repository.MovementFilter{}, domain.Validation("product_id es obligatorio")
	}
	page := f.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return repository.MovementFilter{}, domain.Validation("page debe ser >= 1")
	}
	limit := f.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit < 0 || limit > maxPageLimit {
		return repository.MovementFilter{}, domain.Validation("limit debe estar entre 1 y 100")
	}

	sortField := strings.ToLower(strings.TrimSpace(f.Sort))
	if sortField == "" {
		sortField = repository.SortCreatedAt
	}
	if !repository.MovementSortFields[sortField] {
		return repository.MovementFilter{}, domain.Validation("campo de orden no permitido: " + f.Sort).
			WithDetail("sort", f.Sort)
	}
	desc := true
	switch strings.ToLower(strings.TrimSpace(f.Order)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return repository.MovementFilter{}, domain.Validation("order debe ser asc o desc")
	}

	if f.Direction != "" && !f.Direction.Valid() {
		return repository.MovementFilter{}, domain.Validation("dirección inválida: " + string(f.Direction))
	}
	if f.Source != "" && !f.Source.Valid() {
		return repository.MovementFilter{}, domain.Validation("origen inválido: " + string(f.Source))
	}

	return repository.MovementFilter{
		EnterpriseID: enterpriseID,
		ProductID:    productID,
		WarehouseID:  strings.TrimSpace(f.WarehouseID),
		Direction:    f.Direction,
		Source:       f.Source,
		Reference:    strings.TrimSpace(f.Reference),
		SortField:    sortField,
		SortDesc:     desc,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}, nil
}

func (uc *MovementQueryUseCase) requireProduct(ctx context.Context, enterpriseID, productID string) error {
	ref, err := uc.finder.FindActiveEntity(ctx, entity.KindProduct, productID, enterpriseID)
	if err != nil {
		return err
	}
	if ref == nil {
		return notFoundProduct(productID)
	}
	return nil
}

func notFoundProduct(productID string) error {
	return domain.NotFound(string(entity.KindProduct), productID)
}

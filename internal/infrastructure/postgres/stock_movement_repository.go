package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

const stockMovementsTable = "stock_movements"

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

var movementColumns = []string{
	"id::text AS id",
	"enterprise_id::text AS enterprise_id",
	"product_id::text AS product_id",
	"warehouse_id::text AS warehouse_id",
	"lot_id::text AS lot_id",
	"supplier_id::text AS supplier_id",
	"direction",
	"source",
	"quantity",
	"balance",
	"unit_cost",
	"reference",
	"notes",
	"sequence",
	"created_by",
	"created_at",
}

type movementRow struct {
	ID           string          `db:"id"`
	EnterpriseID string          `db:"enterprise_id"`
	ProductID    string          `db:"product_id"`
	WarehouseID  string          `db:"warehouse_id"`
	LotID        *string         `db:"lot_id"`
	SupplierID   *string         `db:"supplier_id"`
	Direction    string          `db:"direction"`
	Source       string          `db:"source"`
	Quantity     decimal.Decimal `db:"quantity"`
	Balance      decimal.Decimal `db:"balance"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	Reference    *string         `db:"reference"`
	Notes        *string         `db:"notes"`
	Sequence     int64           `db:"sequence"`
	CreatedBy    *string         `db:"created_by"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r movementRow) toEntity() *entity.StockMovement {
	return &entity.StockMovement{
		ID:           r.ID,
		EnterpriseID: r.EnterpriseID,
		ProductID:    r.ProductID,
		WarehouseID:  r.WarehouseID,
		LotID:        r.LotID,
		SupplierID:   r.SupplierID,
		Direction:    entity.Direction(r.Direction),
		Source:       entity.Source(r.Source),
		Quantity:     r.Quantity,
		Balance:      r.Balance,
		UnitCost:     r.UnitCost,
		Reference:    r.Reference,
		Notes:        r.Notes,
		Sequence:     r.Sequence,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
	}
}

// StockMovementRepo libro de movimientos sobre PostgreSQL. Solo inserción: la tabla rechaza UPDATE y DELETE.
type StockMovementRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserta el movimiento. Un ID repetido devuelve DUPLICATE.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query, args, err := r.builder.Insert(stockMovementsTable).
		Columns(
			"id", "enterprise_id", "product_id", "warehouse_id", "lot_id", "supplier_id",
			"direction", "source", "quantity", "balance", "unit_cost",
			"reference", "notes", "sequence", "created_by", "created_at",
		).
		Values(
			m.ID, m.EnterpriseID, m.ProductID, m.WarehouseID, m.LotID, m.SupplierID,
			string(m.Direction), string(m.Source), m.Quantity, m.Balance, m.UnitCost,
			m.Reference, m.Notes, m.Sequence, m.CreatedBy, m.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) && !isRetryable(err) {
			return domain.Duplicate("movimiento duplicado: " + m.ID)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si el movimiento no existe en la empresa.
func (r *StockMovementRepo) GetByID(ctx context.Context, enterpriseID, id string) (*entity.StockMovement, error) {
	if !isUUID(id) || !isUUID(enterpriseID) {
		return nil, nil
	}
	query, args, err := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"id": id, "enterprise_id": enterpriseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get movement: %w", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return row.toEntity(), nil
}

// ListAllByProduct todos los movimientos del producto por secuencia ascendente.
func (r *StockMovementRepo) ListAllByProduct(ctx context.Context, enterpriseID, productID string) ([]*entity.StockMovement, error) {
	if !isUUID(productID) || !isUUID(enterpriseID) {
		return []*entity.StockMovement{}, nil
	}
	query, args, err := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"enterprise_id": enterpriseID, "product_id": productID}).
		OrderBy("sequence ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return toEntities(rows), nil
}

// List página de movimientos filtrada y ordenada, más el total de coincidencias.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	if !isUUID(f.ProductID) || !isUUID(f.EnterpriseID) || (f.WarehouseID != "" && !isUUID(f.WarehouseID)) {
		return []*entity.StockMovement{}, 0, nil
	}
	where := movementConditions(f)

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").From(stockMovementsTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count movements: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	if total == 0 || f.Offset >= total {
		return []*entity.StockMovement{}, total, nil
	}

	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(where).
		OrderBy(movementOrder(f)...)
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return toEntities(rows), total, nil
}

func movementConditions(f repository.MovementFilter) squirrel.And {
	cond := squirrel.And{
		squirrel.Eq{"enterprise_id": f.EnterpriseID},
		squirrel.Eq{"product_id": f.ProductID},
	}
	if f.WarehouseID != "" {
		cond = append(cond, squirrel.Eq{"warehouse_id": f.WarehouseID})
	}
	if f.Direction != "" {
		cond = append(cond, squirrel.Eq{"direction": string(f.Direction)})
	}
	if f.Source != "" {
		cond = append(cond, squirrel.Eq{"source": string(f.Source)})
	}
	if f.Reference != "" {
		cond = append(cond, squirrel.ILike{"reference": "%" + escapeLike(f.Reference) + "%"})
	}
	return cond
}

// movementOrder el campo pedido y, para empates, la secuencia en el mismo sentido.
func movementOrder(f repository.MovementFilter) []string {
	field := f.SortField
	if !repository.MovementSortFields[field] {
		field = repository.SortCreatedAt
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return []string{field + " " + dir, "sequence " + dir}
}

func toEntities(rows []movementRow) []*entity.StockMovement {
	out := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out
}

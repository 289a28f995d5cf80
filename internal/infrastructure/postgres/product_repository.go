package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id::text, enterprise_id::text, sku, name, unit_measure, price, created_at, updated_at, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Cantidad y costo viven en stock_aggregates.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, enterprise_id, sku, name, unit_measure, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.EnterpriseID, product.SKU, product.Name, product.UnitMeasure,
		product.Price, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("sku duplicado: " + product.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la empresa; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, enterpriseID, id string) (*entity.Product, error) {
	if !isUUID(id) || !isUUID(enterpriseID) {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND enterprise_id = $2`
	return r.get(ctx, "get product", query, id, enterpriseID)
}

// GetBySKU obtiene el producto activo con ese SKU en la empresa.
func (r *ProductRepo) GetBySKU(ctx context.Context, enterpriseID, sku string) (*entity.Product, error) {
	if !isUUID(enterpriseID) {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products
		WHERE enterprise_id = $1 AND sku = $2 AND deleted_at IS NULL`
	return r.get(ctx, "get product by sku", query, enterpriseID, sku)
}

func (r *ProductRepo) get(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.EnterpriseID, &p.SKU, &p.Name, &p.UnitMeasure, &p.Price,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

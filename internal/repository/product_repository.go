package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
)

type ProductRepository struct {
	DB *sql.DB
}

const productColumns = `products.id, products.name, products.price, products.stock`

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (name, price, stock)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	if err := r.DB.QueryRowContext(ctx, query, p.Name, p.Price, p.Stock).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p model.Product
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, f filter.ProductFilter) ([]model.Product, error) {
	where, args := whereClause(f.Clauses(), 1)
	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY products.id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// RestockBelow updates every low-stock row in one statement so the sweep is
// all-or-nothing.
func (r *ProductRepository) RestockBelow(ctx context.Context, threshold, increment int) ([]model.Product, error) {
	query := `
        UPDATE products SET stock = stock + $1
        WHERE stock < $2
        RETURNING id, name, price, stock
    `
	rows, err := r.DB.QueryContext(ctx, query, increment, threshold)
	if err != nil {
		return nil, fmt.Errorf("restock products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	sortProductsByID(products)
	return products, nil
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

var _ ProductRepositoryInterface = (*ProductRepository)(nil)

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
)

type OrderRepository struct {
	DB *sql.DB
}

const orderColumns = `orders.id, orders.customer_id, orders.order_date, orders.total_amount, ` + customerColumns

// WithinTx opens a transaction, hands it to fn and commits only if fn
// succeeds.
func (r *OrderRepository) WithinTx(ctx context.Context, fn func(tx OrderTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgOrderTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	orders, err := r.list(ctx, []filter.Clause{{SQL: "orders.id = ?", Args: []any{id}}})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context, f filter.OrderFilter) ([]model.Order, error) {
	return r.list(ctx, f.Clauses())
}

func (r *OrderRepository) list(ctx context.Context, clauses []filter.Clause) ([]model.Order, error) {
	where, args := whereClause(clauses, 1)
	query := `SELECT ` + orderColumns + `
        FROM orders
        JOIN customers ON customers.id = orders.customer_id` + where + `
        ORDER BY orders.id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var (
			o     model.Order
			c     model.Customer
			phone sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount,
			&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		c.Phone = stringPtr(phone)
		o.Customer = &c
		o.Products = []model.Product{}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// Load the product sets with one lookup rather than per order.
	prows, err := r.DB.QueryContext(ctx, `
        SELECT op.order_id, `+productColumns+`
        FROM order_products op
        JOIN products ON products.id = op.product_id
        WHERE op.order_id = ANY($1)
        ORDER BY op.order_id, products.id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var (
			orderID int64
			p       model.Product
		)
		if err := prows.Scan(&orderID, &p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Products = append(orders[i].Products, p)
		}
	}
	return orders, prows.Err()
}

// pgOrderTx locks the rows it reads with FOR SHARE so a concurrent writer
// cannot change the customer or product set under the order being built.
type pgOrderTx struct {
	tx *sql.Tx
}

func (t *pgOrderTx) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR SHARE`
	c, err := scanCustomer(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (t *pgOrderTx) GetProducts(ctx context.Context, ids []int64) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id FOR SHARE`
	rows, err := t.tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (t *pgOrderTx) InsertOrder(ctx context.Context, o *model.Order) error {
	err := t.tx.QueryRowContext(ctx, `
        INSERT INTO orders (customer_id, order_date, total_amount)
        VALUES ($1, $2, $3)
        RETURNING id`, o.CustomerID, o.OrderDate, o.TotalAmount).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	stmt, err := t.tx.PrepareContext(ctx, `INSERT INTO order_products (order_id, product_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("prepare order products: %w", err)
	}
	defer stmt.Close()

	for _, p := range o.Products {
		if _, err := stmt.ExecContext(ctx, o.ID, p.ID); err != nil {
			return fmt.Errorf("link product %d: %w", p.ID, err)
		}
	}
	return nil
}

var _ OrderRepositoryInterface = (*OrderRepository)(nil)

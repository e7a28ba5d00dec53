package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
)

// CustomerRepository provides access to customer storage.
type CustomerRepository struct {
	db *gorm.DB
}

// Create saves a new customer to the database.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErrors.NewDuplicateEmail(c.Email)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by its ID, or nil if there is none.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	return first[model.Customer](r.db.WithContext(ctx), id, "customer")
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check customer email: %w", err)
	}
	return n > 0, nil
}

func (r *CustomerRepository) List(ctx context.Context, f filter.CustomerFilter) ([]model.Customer, error) {
	customers := []model.Customer{}
	q := applyClauses(r.db.WithContext(ctx).Model(&model.Customer{}), f.Clauses())
	if err := q.Order("customers.id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers: %w", err)
	}
	return customers, nil
}

// ProductRepository provides access to product storage.
type ProductRepository struct {
	db *gorm.DB
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return first[model.Product](r.db.WithContext(ctx), id, "product")
}

func (r *ProductRepository) List(ctx context.Context, f filter.ProductFilter) ([]model.Product, error) {
	products := []model.Product{}
	q := applyClauses(r.db.WithContext(ctx).Model(&model.Product{}), f.Clauses())
	if err := q.Order("products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) RestockBelow(ctx context.Context, threshold, increment int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock < ?", threshold).Order("id").Find(&products).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		ids := make([]int64, len(products))
		for i := range products {
			ids[i] = products[i].ID
		}
		if err := tx.Model(&model.Product{}).Where("id IN ?", ids).
			UpdateColumn("stock", gorm.Expr("stock + ?", increment)).Error; err != nil {
			return err
		}
		for i := range products {
			products[i].Stock += increment
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restock products: %w", err)
	}
	return products, nil
}

// OrderRepository provides access to order storage.
type OrderRepository struct {
	db *gorm.DB
}

func (r *OrderRepository) WithinTx(ctx context.Context, fn func(tx repository.OrderTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderTx{db: tx})
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	orders, err := r.find(ctx, []filter.Clause{{SQL: "orders.id = ?", Args: []any{id}}})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context, f filter.OrderFilter) ([]model.Order, error) {
	return r.find(ctx, f.Clauses())
}

func (r *OrderRepository) find(ctx context.Context, clauses []filter.Clause) ([]model.Order, error) {
	orders := []model.Order{}
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Preload("Customer").
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") })
	if err := applyClauses(q, clauses).Order("orders.id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	for i := range orders {
		if orders[i].Products == nil {
			orders[i].Products = []model.Product{}
		}
	}
	return orders, nil
}

type orderTx struct {
	db *gorm.DB
}

func (t *orderTx) GetCustomer(_ context.Context, id int64) (*model.Customer, error) {
	return first[model.Customer](t.db, id, "customer")
}

func (t *orderTx) GetProducts(_ context.Context, ids []int64) ([]model.Product, error) {
	products := []model.Product{}
	if err := t.db.Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// InsertOrder writes the order row and the join rows itself so that GORM
// never upserts the associated customer or products.
func (t *orderTx) InsertOrder(_ context.Context, o *model.Order) error {
	if err := t.db.Omit(clause.Associations).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	links := make([]map[string]any, 0, len(o.Products))
	for _, p := range o.Products {
		links = append(links, map[string]any{"order_id": o.ID, "product_id": p.ID})
	}
	if len(links) == 0 {
		return nil
	}
	if err := t.db.Table("order_products").Create(links).Error; err != nil {
		return fmt.Errorf("failed to link order products: %w", err)
	}
	return nil
}

func first[T any](db *gorm.DB, id int64, entity string) (*T, error) {
	var out T
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find %s: %w", entity, err)
	}
	return &out, nil
}

var (
	_ repository.CustomerRepositoryInterface = (*CustomerRepository)(nil)
	_ repository.ProductRepositoryInterface  = (*ProductRepository)(nil)
	_ repository.OrderRepositoryInterface    = (*OrderRepository)(nil)
)

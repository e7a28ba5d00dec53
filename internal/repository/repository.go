package repository

import (
	"context"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by the customer service.
// GetByID returns (nil, nil) when the customer does not exist.
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, f filter.CustomerFilter) ([]model.Customer, error)
}

type ProductRepositoryInterface interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, f filter.ProductFilter) ([]model.Product, error)

	// RestockBelow adds increment to every product whose stock is below
	// threshold and returns the updated rows ordered by id.
	RestockBelow(ctx context.Context, threshold, increment int) ([]model.Product, error)
}

// OrderTx is the view of the store available inside an order transaction.
type OrderTx interface {
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	// GetProducts returns the products among ids that exist, ordered by id.
	GetProducts(ctx context.Context, ids []int64) ([]model.Product, error)
	// InsertOrder stores o, sets o.ID and links o.Products.
	InsertOrder(ctx context.Context, o *model.Order) error
}

type OrderRepositoryInterface interface {
	// WithinTx runs fn in a single transaction: committed when fn returns
	// nil, rolled back otherwise.
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, f filter.OrderFilter) ([]model.Order, error)
}

// Store groups the repositories of one backing database.
type Store struct {
	Customers CustomerRepositoryInterface
	Products  ProductRepositoryInterface
	Orders    OrderRepositoryInterface

	Ping  func(ctx context.Context) error
	Close func() error
	// Driver is "postgres" or "sqlite".
	Driver string
}

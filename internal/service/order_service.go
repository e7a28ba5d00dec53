// internal/service/order_service.go
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
)

type OrderService struct {
	OrderRepo repository.OrderRepositoryInterface
	Now       func() time.Time
}

// CreateOrder resolves the customer and products, totals the prices and
// stores the order, all inside one transaction. Every product id must
// resolve; repeated ids count once.
func (s *OrderService) CreateOrder(ctx context.Context, customerID int64, productIDs []int64) (*model.Order, error) {
	var order *model.Order
	err := s.OrderRepo.WithinTx(ctx, func(tx repository.OrderTx) error {
		customer, err := tx.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return appErrors.NewCustomerNotFound(customerID)
		}

		ids := uniqueIDs(productIDs)
		if len(ids) == 0 {
			return appErrors.NewEmptyProductList()
		}

		products, err := tx.GetProducts(ctx, ids)
		if err != nil {
			return err
		}
		if missing := missingIDs(ids, products); len(missing) > 0 {
			return appErrors.NewProductNotFound(missing)
		}

		o := &model.Order{
			CustomerID:  customer.ID,
			Customer:    customer,
			Products:    products,
			OrderDate:   s.now(),
			TotalAmount: Total(products),
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, f filter.OrderFilter) ([]model.Order, error) {
	return s.OrderRepo.List(ctx, f)
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := s.OrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, appErrors.NewNotFound("order", id)
	}
	return o, nil
}

// Total sums the current prices of products.
func Total(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missingIDs(want []int64, found []model.Product) []int64 {
	have := make(map[int64]bool, len(found))
	for _, p := range found {
		have[p.ID] = true
	}
	var missing []int64
	for _, id := range want {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

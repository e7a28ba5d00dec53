// internal/service/product_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
)

const (
	LowStockThreshold = 10
	RestockIncrement  = 10

	// PriceScale matches the NUMERIC(10,2) price column.
	PriceScale = 2
)

var maxPrice = decimal.New(1, 10-PriceScale)

type ProductService struct {
	ProductRepo repository.ProductRepositoryInterface
}

// RestockResult is the payload of updateLowStockProducts.
type RestockResult struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	UpdatedProducts []model.Product `json:"updatedProducts"`
}

func (s *ProductService) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, appErrors.NewMissingField("name")
	}
	// Prices are stored with two decimal places.
	price := in.Price.Round(PriceScale)
	if !price.IsPositive() {
		return nil, appErrors.NewInvalidPrice()
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, appErrors.New(appErrors.KindInvalidPrice, "Price must be below %s", maxPrice.StringFixed(PriceScale))
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, appErrors.NewInvalidStock()
	}

	p := &model.Product{Name: in.Name, Price: price, Stock: stock}
	if err := s.ProductRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) ListProducts(ctx context.Context, f filter.ProductFilter) ([]model.Product, error) {
	return s.ProductRepo.List(ctx, f)
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.ProductRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, appErrors.NewNotFound("product", id)
	}
	return p, nil
}

// UpdateLowStockProducts adds RestockIncrement to every product below
// LowStockThreshold. It is not a fixed point: a product still below the
// threshold afterwards is bumped again on the next call.
func (s *ProductService) UpdateLowStockProducts(ctx context.Context) (*RestockResult, error) {
	updated, err := s.ProductRepo.RestockBelow(ctx, LowStockThreshold, RestockIncrement)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = []model.Product{}
	}
	return &RestockResult{
		Success:         true,
		Message:         fmt.Sprintf("Updated %d low-stock products", len(updated)),
		UpdatedProducts: updated,
	}, nil
}

// internal/service/customer_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
)

const CustomerCreatedMessage = "Customer created successfully"

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	// Now defaults to time.Now.
	Now func() time.Time
}

// BulkCreateResult holds the outcome of a best-effort batch: created
// customers in input order, and one message per failed input.
type BulkCreateResult struct {
	Customers []model.Customer `json:"customers"`
	Errors    []string         `json:"errors"`
}

func (s *CustomerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateCustomer validates in and persists a new customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	c, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	exists, err := s.CustomerRepo.ExistsByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.NewDuplicateEmail(c.Email)
	}

	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// BulkCreateCustomers creates each input independently. A failing input is
// recorded in Errors and never stops the ones after it; nothing is rolled
// back.
func (s *CustomerService) BulkCreateCustomers(ctx context.Context, inputs []model.CustomerInput) BulkCreateResult {
	result := BulkCreateResult{
		Customers: []model.Customer{},
		Errors:    []string{},
	}
	for _, in := range inputs {
		c, err := s.CreateCustomer(ctx, in)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Customers = append(result.Customers, *c)
	}
	return result
}

func (s *CustomerService) ListCustomers(ctx context.Context, f filter.CustomerFilter) ([]model.Customer, error) {
	return s.CustomerRepo.List(ctx, f)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NewNotFound("customer", id)
	}
	return c, nil
}

// validate only rejects blank values; the stored record keeps the fields
// exactly as they were given.
func (s *CustomerService) validate(in model.CustomerInput) (*model.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, appErrors.NewMissingField("name")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, appErrors.NewMissingField("email")
	}

	var phone *string
	if in.Phone != nil && *in.Phone != "" {
		if !ValidPhone(*in.Phone) {
			return nil, appErrors.NewInvalidPhoneFormat(*in.Phone)
		}
		p := *in.Phone
		phone = &p
	}

	return &model.Customer{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     phone,
		CreatedAt: s.now(),
	}, nil
}

// ValidPhone reports whether phone is made of digits once '-' and '+' are
// removed. Nothing but separators is not a phone number.
func ValidPhone(phone string) bool {
	digits := strings.NewReplacer("-", "", "+", "").Replace(phone)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (r BulkCreateResult) String() string {
	return fmt.Sprintf("%d created, %d failed", len(r.Customers), len(r.Errors))
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
)

// CustomerRepository is the PostgreSQL implementation.
type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `customers.id, customers.name, customers.email, customers.phone, customers.created_at`

// Create inserts c and fills in its ID. A unique violation on email is
// reported as DuplicateEmail.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (name, email, phone, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.Email, nullString(c.Phone), c.CreatedAt).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return appErrors.NewDuplicateEmail(c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer email: %w", err)
	}
	return exists, nil
}

func (r *CustomerRepository) List(ctx context.Context, f filter.CustomerFilter) ([]model.Customer, error) {
	where, args := whereClause(f.Clauses(), 1)
	query := `SELECT ` + customerColumns + ` FROM customers` + where + ` ORDER BY customers.id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var (
		c     model.Customer
		phone sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Phone = stringPtr(phone)
	return &c, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)

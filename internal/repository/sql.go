package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
)

const pqUniqueViolation = "23505"

// NewPostgresStore wires the lib/pq backed repositories around db.
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Customers: &CustomerRepository{DB: db},
		Products:  &ProductRepository{DB: db},
		Orders:    &OrderRepository{DB: db},
		Ping:      db.PingContext,
		Close:     db.Close,
		Driver:    "postgres",
	}
}

// whereClause joins clauses with AND and renumbers their "?" placeholders
// to $argPos, $argPos+1, ...
func whereClause(clauses []filter.Clause, argPos int) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(" WHERE ")
	for i, c := range clauses {
		if i > 0 {
			b.WriteString(" AND ")
		}
		for _, r := range c.SQL {
			if r == '?' {
				fmt.Fprintf(&b, "$%d", argPos)
				argPos++
				continue
			}
			b.WriteRune(r)
		}
		args = append(args, c.Args...)
	}
	return b.String(), args
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func sortProductsByID(products []model.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}

// Package filter turns field-level predicates (as they arrive in query strings)
// into typed filters and renders them as SQL clauses both stores understand.
//
// Clauses use "?" placeholders. The PostgreSQL store renumbers them to $n.
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
)

// Clause is one AND-ed condition of a WHERE.
type Clause struct {
	SQL  string
	Args []any
}

// Values is a field name -> raw predicate value mapping.
type Values map[string]string

// FromQuery takes the first value of every query parameter.
func FromQuery(q url.Values) Values {
	v := make(Values, len(q))
	for k, vals := range q {
		if len(vals) > 0 {
			v[k] = vals[0]
		}
	}
	return v
}

// sortedKeys keeps error reporting deterministic when several fields are bad.
func (v Values) sortedKeys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type CustomerFilter struct {
	Name         string
	Email        string
	Phone        string
	CreatedAtGte *time.Time
	CreatedAtLte *time.Time
}

type ProductFilter struct {
	Name     string
	PriceGte *decimal.Decimal
	PriceLte *decimal.Decimal
	StockGte *int
	StockLte *int
}

type OrderFilter struct {
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	CustomerName   string
	ProductName    string
	CustomerID     *int64
	ProductID      *int64
}

func ParseCustomerFilter(v Values) (CustomerFilter, error) {
	var f CustomerFilter
	for _, field := range v.sortedKeys() {
		raw := strings.TrimSpace(v[field])
		if raw == "" {
			if !knownCustomerField(field) {
				return f, appErrors.NewInvalidFilterField("customer", field)
			}
			continue
		}
		var err error
		switch field {
		case "name":
			f.Name = raw
		case "email":
			f.Email = raw
		case "phone":
			f.Phone = raw
		case "created_at__gte":
			f.CreatedAtGte, err = parseTime(field, raw, false)
		case "created_at__lte":
			f.CreatedAtLte, err = parseTime(field, raw, true)
		default:
			return f, appErrors.NewInvalidFilterField("customer", field)
		}
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func ParseProductFilter(v Values) (ProductFilter, error) {
	var f ProductFilter
	for _, field := range v.sortedKeys() {
		raw := strings.TrimSpace(v[field])
		if raw == "" {
			if !knownProductField(field) {
				return f, appErrors.NewInvalidFilterField("product", field)
			}
			continue
		}
		var err error
		switch field {
		case "name":
			f.Name = raw
		case "price__gte":
			f.PriceGte, err = parseDecimal(field, raw)
		case "price__lte":
			f.PriceLte, err = parseDecimal(field, raw)
		case "stock__gte":
			f.StockGte, err = parseInt(field, raw)
		case "stock__lte":
			f.StockLte, err = parseInt(field, raw)
		default:
			return f, appErrors.NewInvalidFilterField("product", field)
		}
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func ParseOrderFilter(v Values) (OrderFilter, error) {
	var f OrderFilter
	for _, field := range v.sortedKeys() {
		raw := strings.TrimSpace(v[field])
		if raw == "" {
			if !knownOrderField(field) {
				return f, appErrors.NewInvalidFilterField("order", field)
			}
			continue
		}
		var err error
		switch field {
		case "order_date__gte":
			f.OrderDateGte, err = parseTime(field, raw, false)
		case "order_date__lte":
			f.OrderDateLte, err = parseTime(field, raw, true)
		case "total_amount__gte":
			f.TotalAmountGte, err = parseDecimal(field, raw)
		case "total_amount__lte":
			f.TotalAmountLte, err = parseDecimal(field, raw)
		case "customer_name":
			f.CustomerName = raw
		case "product_name":
			f.ProductName = raw
		case "customer":
			f.CustomerID, err = parseID(field, raw)
		case "products":
			f.ProductID, err = parseID(field, raw)
		default:
			return f, appErrors.NewInvalidFilterField("order", field)
		}
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func knownCustomerField(field string) bool {
	switch field {
	case "name", "email", "phone", "created_at__gte", "created_at__lte":
		return true
	}
	return false
}

func knownProductField(field string) bool {
	switch field {
	case "name", "price__gte", "price__lte", "stock__gte", "stock__lte":
		return true
	}
	return false
}

func knownOrderField(field string) bool {
	switch field {
	case "order_date__gte", "order_date__lte", "total_amount__gte", "total_amount__lte",
		"customer_name", "product_name", "customer", "products":
		return true
	}
	return false
}

// parseTime accepts a plain date or RFC 3339. A plain date used as an upper
// bound covers the whole day.
func parseTime(field, raw string, upper bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, appErrors.NewInvalidFilterValue(field, raw, "a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseDecimal(field, raw string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, appErrors.NewInvalidFilterValue(field, raw, "a number")
	}
	return &d, nil
}

func parseInt(field, raw string) (*int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.NewInvalidFilterValue(field, raw, "an integer")
	}
	return &n, nil
}

func parseID(field, raw string) (*int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, appErrors.NewInvalidFilterValue(field, raw, "an id")
	}
	return &n, nil
}

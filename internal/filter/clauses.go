package filter

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern for a case-insensitive substring match.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func icontains(column, value string) Clause {
	return Clause{
		SQL:  "LOWER(" + column + `) LIKE ? ESCAPE '\'`,
		Args: []any{containsPattern(value)},
	}
}

func cmp(column, op string, arg any) Clause {
	return Clause{SQL: column + " " + op + " ?", Args: []any{arg}}
}

func (f CustomerFilter) Clauses() []Clause {
	var cs []Clause
	if f.Name != "" {
		cs = append(cs, icontains("customers.name", f.Name))
	}
	if f.Email != "" {
		cs = append(cs, icontains("customers.email", f.Email))
	}
	if f.Phone != "" {
		cs = append(cs, icontains("customers.phone", f.Phone))
	}
	if f.CreatedAtGte != nil {
		cs = append(cs, cmp("customers.created_at", ">=", *f.CreatedAtGte))
	}
	if f.CreatedAtLte != nil {
		cs = append(cs, cmp("customers.created_at", "<=", *f.CreatedAtLte))
	}
	return cs
}

func (f ProductFilter) Clauses() []Clause {
	var cs []Clause
	if f.Name != "" {
		cs = append(cs, icontains("products.name", f.Name))
	}
	if f.PriceGte != nil {
		cs = append(cs, cmp("products.price", ">=", *f.PriceGte))
	}
	if f.PriceLte != nil {
		cs = append(cs, cmp("products.price", "<=", *f.PriceLte))
	}
	if f.StockGte != nil {
		cs = append(cs, cmp("products.stock", ">=", *f.StockGte))
	}
	if f.StockLte != nil {
		cs = append(cs, cmp("products.stock", "<=", *f.StockLte))
	}
	return cs
}

// Clauses renders related-entity predicates as EXISTS lookups so that a
// to-many match on products never duplicates order rows.
func (f OrderFilter) Clauses() []Clause {
	var cs []Clause
	if f.OrderDateGte != nil {
		cs = append(cs, cmp("orders.order_date", ">=", *f.OrderDateGte))
	}
	if f.OrderDateLte != nil {
		cs = append(cs, cmp("orders.order_date", "<=", *f.OrderDateLte))
	}
	if f.TotalAmountGte != nil {
		cs = append(cs, cmp("orders.total_amount", ">=", *f.TotalAmountGte))
	}
	if f.TotalAmountLte != nil {
		cs = append(cs, cmp("orders.total_amount", "<=", *f.TotalAmountLte))
	}
	if f.CustomerID != nil {
		cs = append(cs, cmp("orders.customer_id", "=", *f.CustomerID))
	}
	if f.CustomerName != "" {
		cs = append(cs, Clause{
			SQL: `EXISTS (SELECT 1 FROM customers c WHERE c.id = orders.customer_id AND LOWER(c.name) LIKE ? ESCAPE '\')`,
			Args: []any{containsPattern(f.CustomerName)},
		})
	}
	if f.ProductName != "" {
		cs = append(cs, Clause{
			SQL: `EXISTS (SELECT 1 FROM order_products op JOIN products p ON p.id = op.product_id ` +
				`WHERE op.order_id = orders.id AND LOWER(p.name) LIKE ? ESCAPE '\')`,
			Args: []any{containsPattern(f.ProductName)},
		})
	}
	if f.ProductID != nil {
		cs = append(cs, Clause{
			SQL:  `EXISTS (SELECT 1 FROM order_products op WHERE op.order_id = orders.id AND op.product_id = ?)`,
			Args: []any{*f.ProductID},
		})
	}
	return cs
}

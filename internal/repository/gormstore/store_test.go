package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
)

func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := Open(MemoryPath, false)
	require.NoError(t, err)
	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d.Add(12 * time.Hour)
}

type fixture struct {
	alice, bob           *model.Customer
	laptop, mouse, cable *model.Product
	aliceOrder, bobOrder *model.Order
}

func seed(t *testing.T, s *repository.Store) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	phone := "+254700000001"
	f.alice = &model.Customer{Name: "Alice Wanjiru", Email: "alice@example.com", Phone: &phone, CreatedAt: day("2025-01-10")}
	f.bob = &model.Customer{Name: "Bob 100%_Real", Email: "bob@example.org", CreatedAt: day("2025-02-20")}
	require.NoError(t, s.Customers.Create(ctx, f.alice))
	require.NoError(t, s.Customers.Create(ctx, f.bob))

	f.laptop = &model.Product{Name: "Laptop Pro", Price: decimal.RequireFromString("1200.00"), Stock: 4}
	f.mouse = &model.Product{Name: "Wireless Mouse", Price: decimal.RequireFromString("25.50"), Stock: 30}
	f.cable = &model.Product{Name: "USB Cable", Price: decimal.RequireFromString("5.00"), Stock: 9}
	for _, p := range []*model.Product{f.laptop, f.mouse, f.cable} {
		require.NoError(t, s.Products.Create(ctx, p))
	}

	f.aliceOrder = placeOrder(t, s, f.alice, day("2025-03-01"), f.laptop, f.mouse)
	f.bobOrder = placeOrder(t, s, f.bob, day("2025-03-10"), f.cable)
	return f
}

func placeOrder(t *testing.T, s *repository.Store, c *model.Customer, at time.Time, products ...*model.Product) *model.Order {
	t.Helper()
	o := &model.Order{CustomerID: c.ID, OrderDate: at, TotalAmount: decimal.Zero}
	for _, p := range products {
		o.Products = append(o.Products, *p)
		o.TotalAmount = o.TotalAmount.Add(p.Price)
	}
	err := s.Orders.WithinTx(context.Background(), func(tx repository.OrderTx) error {
		return tx.InsertOrder(context.Background(), o)
	})
	require.NoError(t, err)
	return o
}

func customerIDs(cs []model.Customer) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func productIDs(ps []model.Product) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func orderIDs(orders []model.Order) []int64 {
	out := make([]int64, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestCustomerRepository(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()

	got, err := s.Customers.GetByID(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Wanjiru", got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+254700000001", *got.Phone)

	missing, err := s.Customers.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := s.Customers.ExistsByEmail(ctx, "bob@example.org")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.Customers.Create(ctx, &model.Customer{Name: "Copy", Email: "alice@example.com", CreatedAt: time.Now().UTC()})
	assert.Equal(t, appErrors.KindDuplicateEmail, appErrors.KindOf(err))
}

func TestCustomerFilters(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()
	from := day("2025-02-01")
	until := day("2025-01-31")

	tests := []struct {
		name string
		f    filter.CustomerFilter
		want []int64
	}{
		{"no predicate", filter.CustomerFilter{}, []int64{f.alice.ID, f.bob.ID}},
		{"name is case-insensitive", filter.CustomerFilter{Name: "WANJ"}, []int64{f.alice.ID}},
		{"email substring", filter.CustomerFilter{Email: ".org"}, []int64{f.bob.ID}},
		{"phone substring", filter.CustomerFilter{Phone: "2547"}, []int64{f.alice.ID}},
		{"wildcards are literal", filter.CustomerFilter{Name: "100%_"}, []int64{f.bob.ID}},
		{"percent alone matches nothing extra", filter.CustomerFilter{Name: "%"}, []int64{f.bob.ID}},
		{"created lower bound", filter.CustomerFilter{CreatedAtGte: &from}, []int64{f.bob.ID}},
		{"created upper bound", filter.CustomerFilter{CreatedAtLte: &until}, []int64{f.alice.ID}},
		{"conjunction", filter.CustomerFilter{Name: "a", CreatedAtGte: &from}, []int64{f.bob.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Customers.List(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, customerIDs(got))
		})
	}
}

func TestCustomerFilters_FromQueryValues(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)

	cf, err := filter.ParseCustomerFilter(filter.Values{"created_at__gte": "2025-01-10", "created_at__lte": "2025-01-10"})
	require.NoError(t, err)
	got, err := s.Customers.List(context.Background(), cf)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.alice.ID}, customerIDs(got), "a plain date bound covers the whole day")
}

func TestCustomerFilters_UnicodeCaseFolding(t *testing.T) {
	s := setupStore(t)
	seed(t, s)
	ctx := context.Background()

	elan := &model.Customer{Name: "Élan Ødegård", Email: "elan@example.com", CreatedAt: day("2025-03-01")}
	require.NoError(t, s.Customers.Create(ctx, elan))

	for _, name := range []string{"é", "ÉLAN", "øDEGÅRD"} {
		got, err := s.Customers.List(ctx, filter.CustomerFilter{Name: name})
		require.NoError(t, err)
		assert.Equal(t, []int64{elan.ID}, customerIDs(got), name)
	}

	// NULL phones pass through the function without matching.
	got, err := s.Customers.List(ctx, filter.CustomerFilter{Phone: "2547"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestProductFilters(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()

	cheap := decimal.RequireFromString("25.50")
	ten := 10
	tests := []struct {
		name string
		f    filter.ProductFilter
		want []int64
	}{
		{"name", filter.ProductFilter{Name: "mouse"}, []int64{f.mouse.ID}},
		{"price upper bound is inclusive", filter.ProductFilter{PriceLte: &cheap}, []int64{f.mouse.ID, f.cable.ID}},
		{"price lower bound is inclusive", filter.ProductFilter{PriceGte: &cheap}, []int64{f.laptop.ID, f.mouse.ID}},
		{"stock below", filter.ProductFilter{StockLte: &ten}, []int64{f.laptop.ID, f.cable.ID}},
		{"stock above", filter.ProductFilter{StockGte: &ten}, []int64{f.mouse.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Products.List(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, productIDs(got))
		})
	}
}

func TestOrderFilters(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()

	march5 := day("2025-03-05")
	hundred := decimal.NewFromInt(100)
	tests := []struct {
		name string
		f    filter.OrderFilter
		want []int64
	}{
		{"all", filter.OrderFilter{}, []int64{f.aliceOrder.ID, f.bobOrder.ID}},
		{"customer name", filter.OrderFilter{CustomerName: "alice"}, []int64{f.aliceOrder.ID}},
		{"product name, any product", filter.OrderFilter{ProductName: "MOUSE"}, []int64{f.aliceOrder.ID}},
		{"product name shared by nothing", filter.OrderFilter{ProductName: "keyboard"}, []int64{}},
		{"product name matching several products lists the order once", filter.OrderFilter{ProductName: "o"}, []int64{f.aliceOrder.ID}},
		{"customer id", filter.OrderFilter{CustomerID: &f.bob.ID}, []int64{f.bobOrder.ID}},
		{"product id", filter.OrderFilter{ProductID: &f.laptop.ID}, []int64{f.aliceOrder.ID}},
		{"order date", filter.OrderFilter{OrderDateGte: &march5}, []int64{f.bobOrder.ID}},
		{"total", filter.OrderFilter{TotalAmountGte: &hundred}, []int64{f.aliceOrder.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Orders.List(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, orderIDs(got))
		})
	}
}

func TestOrderRepository_LoadsRelations(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)

	o, err := s.Orders.GetByID(context.Background(), f.aliceOrder.ID)
	require.NoError(t, err)
	require.NotNil(t, o.Customer)
	assert.Equal(t, f.alice.Email, o.Customer.Email)
	assert.Equal(t, []int64{f.laptop.ID, f.mouse.ID}, productIDs(o.Products))
	assert.True(t, decimal.RequireFromString("1225.50").Equal(o.TotalAmount))

	missing, err := s.Orders.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWithinTx_RollsBack(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Orders.WithinTx(ctx, func(tx repository.OrderTx) error {
		c, err := tx.GetCustomer(ctx, f.alice.ID)
		require.NoError(t, err)
		products, err := tx.GetProducts(ctx, []int64{f.cable.ID, f.laptop.ID, 999})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.laptop.ID, f.cable.ID}, productIDs(products))

		o := &model.Order{CustomerID: c.ID, OrderDate: time.Now().UTC(), Products: products, TotalAmount: decimal.NewFromInt(1)}
		require.NoError(t, tx.InsertOrder(ctx, o))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := s.Orders.List(ctx, filter.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestRestockBelow(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()

	updated, err := s.Products.RestockBelow(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, f.laptop.ID, updated[0].ID)
	assert.Equal(t, 14, updated[0].Stock)
	assert.Equal(t, f.cable.ID, updated[1].ID)
	assert.Equal(t, 19, updated[1].Stock)

	mouse, err := s.Products.GetByID(ctx, f.mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, mouse.Stock)

	updated, err = s.Products.RestockBelow(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestPing(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, "sqlite", s.Driver)
}

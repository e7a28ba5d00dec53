// internal/controller/router.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/crm-backend/internal/handler"
)

// API bundles the controllers served under /api.
type API struct {
	Customers *CustomerController
	Products  *ProductController
	Orders    *OrderController
	Health    *handler.HealthHandler
}

// Routes builds the router. Every operation lives at /api/<operationName>.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.Health.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", a.Health.Hello)

		r.Get("/allCustomers", a.Customers.AllCustomers)
		r.Get("/customer", a.Customers.Customer)
		r.Post("/createCustomer", a.Customers.CreateCustomer)
		r.Post("/bulkCreateCustomers", a.Customers.BulkCreateCustomers)

		r.Get("/allProducts", a.Products.AllProducts)
		r.Get("/product", a.Products.Product)
		r.Post("/createProduct", a.Products.CreateProduct)
		r.Post("/updateLowStockProducts", a.Products.UpdateLowStockProducts)

		r.Get("/allOrders", a.Orders.AllOrders)
		r.Get("/order", a.Orders.Order)
		r.Post("/createOrder", a.Orders.CreateOrder)
	})

	return r
}

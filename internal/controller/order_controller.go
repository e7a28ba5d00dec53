// internal/controller/order_controller.go
package controller

import (
	"log"
	"net/http"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/handler"
	"github.com/unclebandit/crm-backend/internal/service"
)

type OrderController struct {
	OrderService *service.OrderService
}

func (c *OrderController) AllOrders(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseOrderFilter(filter.FromQuery(r.URL.Query()))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	orders, err := c.OrderService.ListOrders(r.Context(), f)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "allOrders", orders)
}

func (c *OrderController) Order(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	order, err := c.OrderService.GetOrder(r.Context(), id)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "order", order)
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerID ID   `json:"customerId"`
		ProductIDs []ID `json:"productIds"`
	}
	if err := decodeBody(r, &body); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	order, err := c.OrderService.CreateOrder(r.Context(), int64(body.CustomerID), ids(body.ProductIDs))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	log.Printf("🧾 Order %d created for customer %d, total %s", order.ID, order.CustomerID, order.TotalAmount)
	handler.WriteData(w, http.StatusOK, "createOrder", map[string]any{"order": order})
}

// internal/controller/customer_controller.go
package controller

import (
	"log"
	"net/http"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/handler"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

func (c *CustomerController) AllCustomers(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseCustomerFilter(filter.FromQuery(r.URL.Query()))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	customers, err := c.CustomerService.ListCustomers(r.Context(), f)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "allCustomers", customers)
}

func (c *CustomerController) Customer(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	customer, err := c.CustomerService.GetCustomer(r.Context(), id)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "customer", customer)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input model.CustomerInput `json:"input"`
	}
	if err := decodeBody(r, &body); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	customer, err := c.CustomerService.CreateCustomer(r.Context(), body.Input)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	log.Println("✅ Customer created:", customer.ID)
	handler.WriteData(w, http.StatusOK, "createCustomer", map[string]any{
		"customer": customer,
		"message":  service.CustomerCreatedMessage,
	})
}

// BulkCreateCustomers always answers 200; per-input failures are in the
// payload's errors list.
func (c *CustomerController) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Inputs []model.CustomerInput `json:"inputs"`
	}
	if err := decodeBody(r, &body); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	result := c.CustomerService.BulkCreateCustomers(r.Context(), body.Inputs)
	log.Println("📥 Bulk customer import:", result)
	handler.WriteData(w, http.StatusOK, "bulkCreateCustomers", result)
}

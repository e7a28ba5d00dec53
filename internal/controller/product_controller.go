// internal/controller/product_controller.go
package controller

import (
	"log"
	"net/http"

	"github.com/unclebandit/crm-backend/internal/filter"
	"github.com/unclebandit/crm-backend/internal/handler"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/service"
)

type ProductController struct {
	ProductService *service.ProductService
}

func (c *ProductController) AllProducts(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseProductFilter(filter.FromQuery(r.URL.Query()))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	products, err := c.ProductService.ListProducts(r.Context(), f)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "allProducts", products)
}

func (c *ProductController) Product(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	product, err := c.ProductService.GetProduct(r.Context(), id)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "product", product)
}

func (c *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input model.ProductInput `json:"input"`
	}
	if err := decodeBody(r, &body); err != nil {
		handler.WriteBadRequest(w, err.Error())
		return
	}

	product, err := c.ProductService.CreateProduct(r.Context(), body.Input)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	handler.WriteData(w, http.StatusOK, "createProduct", map[string]any{"product": product})
}

func (c *ProductController) UpdateLowStockProducts(w http.ResponseWriter, r *http.Request) {
	result, err := c.ProductService.UpdateLowStockProducts(r.Context())
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	log.Println("📦", result.Message)
	handler.WriteData(w, http.StatusOK, "updateLowStockProducts", result)
}

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHello(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hello", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"data":{"hello":"Hello, GraphQL!"}}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL + "/api/").Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello, GraphQL!", got)
}

func TestUpdateLowStockProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"data":{"updateLowStockProducts":{"success":true,"message":"Updated 1 low-stock products",
			"updatedProducts":[{"id":3,"name":"Widget","price":"2.50","stock":15}]}}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).UpdateLowStockProducts(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.UpdatedProducts, 1)
	assert.Equal(t, "Widget", res.UpdatedProducts[0].Name)
	assert.Equal(t, 15, res.UpdatedProducts[0].Stock)
	assert.Equal(t, "3", res.UpdatedProducts[0].ID.String())
}

func TestAllOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ali", r.URL.Query().Get("customer_name"))
		w.Write([]byte(`{"data":{"allOrders":[
			{"id":1,"orderDate":"2025-03-01T10:00:00Z","customer":{"email":"a@example.com"}},
			{"id":2,"orderDate":"bogus","customer":null}
		]}}`))
	}))
	defer srv.Close()

	orders, err := New(srv.URL).AllOrders(context.Background(), url.Values{"customer_name": {"ali"}})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a@example.com", orders[0].Customer.Email)
	assert.Equal(t, "bogus", orders[1].OrderDate)
	assert.Nil(t, orders[1].Customer)
}

func TestErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/allOrders":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"message":"unknown order filter field \"x\"","kind":"InvalidFilterField"}]}`))
		case "/hello":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`<html>bad gateway</html>`))
		default:
			w.Write([]byte(`{"data":{}}`))
		}
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.AllOrders(context.Background(), url.Values{"x": {"1"}})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "InvalidFilterField", apiErr.Kind)

	_, err = c.Hello(context.Background())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)

	_, err = c.UpdateLowStockProducts(context.Background())
	assert.ErrorContains(t, err, "no updateLowStockProducts field")
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base).Hello(context.Background())
	assert.Error(t, err)
}

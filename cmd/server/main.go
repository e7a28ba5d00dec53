// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/controller"
	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/handler"
	"github.com/unclebandit/crm-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := db.OpenStore(ctx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatal("failed to open store:", err)
	}

	customerService := &service.CustomerService{CustomerRepo: store.Customers}
	productService := &service.ProductService{ProductRepo: store.Products}
	orderService := &service.OrderService{OrderRepo: store.Orders}

	api := &controller.API{
		Customers: &controller.CustomerController{CustomerService: customerService},
		Products:  &controller.ProductController{ProductService: productService},
		Orders:    &controller.OrderController{OrderService: orderService},
		Health:    &handler.HealthHandler{Ping: store.Ping},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on %s (store: %s)", cfg.HTTPAddr, store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed:", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// The store closes only after in-flight requests have drained.
			"http-server": func(ctx context.Context) error {
				log.Println("Shutting down HTTP server...")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return store.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/streadway/amqp"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required")
	}

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.Fatal(err)
	}

	msgs, err := q.Consume(cfg.ReminderQueue)
	if err != nil {
		log.Fatal(err)
	}

	worker := service.NewReminderWorker(nil, service.MockEmailSender)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			handleDelivery(d, worker)
		}
	}()

	log.Printf("Worker running, waiting for messages on %s...", cfg.ReminderQueue)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"amqp-consumer": func(ctx context.Context) error {
				// Closing the channel ends the deliveries loop.
				if err := q.Close(); err != nil {
					return err
				}
				select {
				case <-done:
				case <-ctx.Done():
					return ctx.Err()
				}
				log.Printf("Worker stopped: %d sent, %d failed", worker.Sent(), worker.Failed())
				return nil
			},
		},
	)
	os.Exit(<-wait)
}

// handleDelivery gives each reminder one delivery attempt and then acks it,
// whatever the outcome. Undecodable messages are acked and dropped.
func handleDelivery(d amqp.Delivery, worker *service.ReminderWorker) {
	var msg model.ReminderMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Println("Invalid reminder message:", err)
		ack(d)
		return
	}

	_ = worker.Handle(msg)
	ack(d)
}

func ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		log.Println("Failed to ack message:", err)
	}
}

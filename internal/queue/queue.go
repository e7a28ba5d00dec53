package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// ReminderTopic is the queue the order-reminder job publishes to.
const ReminderTopic = "order_reminders"

// Queue publishes payloads to a named topic.
type Queue interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// InMemoryQueue delivers to in-process subscribers. Each handler gets one
// attempt per message; failures are logged and dropped.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	inflight sync.WaitGroup
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// Publish hands payload to every subscriber of topic asynchronously.
func (q *InMemoryQueue) Publish(_ context.Context, topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.inflight.Add(1)
		go q.processJob(topic, handler, payload)
	}
	return nil
}

func (q *InMemoryQueue) processJob(topic string, handler func(payload any) error, payload any) {
	defer q.inflight.Done()
	if err := handler(payload); err != nil {
		log.Printf("⚠️ [%s] job failed, dropping: %v", topic, err)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[topic] = append(q.handlers[topic], handler)
}

// Close waits for in-flight deliveries.
func (q *InMemoryQueue) Close() error {
	q.inflight.Wait()
	return nil
}

var (
	_ Queue = (*InMemoryQueue)(nil)
	_ Queue = (*AMQPQueue)(nil)
)

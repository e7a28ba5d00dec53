package main

import (
	"errors"
	"sync"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/service"
)

// MockAcknowledger records what happened to each delivery tag.
type MockAcknowledger struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	refused []uint64
}

func (m *MockAcknowledger) Ack(tag uint64, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, tag)
	return nil
}

func (m *MockAcknowledger) Nack(tag uint64, _ bool, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked = append(m.nacked, tag)
	return nil
}

func (m *MockAcknowledger) Reject(tag uint64, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refused = append(m.refused, tag)
	return nil
}

func TestHandleDelivery(t *testing.T) {
	acker := &MockAcknowledger{}
	var sentTo []string
	worker := service.NewReminderWorker(nil, func(msg model.ReminderMessage) error {
		if msg.Email == "bounce@example.com" {
			return errors.New("mailbox unavailable")
		}
		sentTo = append(sentTo, msg.Email)
		return nil
	})

	deliveries := []amqp.Delivery{
		{Acknowledger: acker, DeliveryTag: 1, Body: []byte(`{"order_id":1,"email":"a@example.com","order_date":"2025-03-14"}`)},
		{Acknowledger: acker, DeliveryTag: 2, Body: []byte(`{"order_id":2,"email":"bounce@example.com"}`)},
		{Acknowledger: acker, DeliveryTag: 3, Body: []byte(`not json`)},
	}
	for _, d := range deliveries {
		handleDelivery(d, worker)
	}

	assert.Equal(t, []string{"a@example.com"}, sentTo)
	assert.Equal(t, []uint64{1, 2, 3}, acker.acked, "every message is acked after one attempt")
	assert.Empty(t, acker.nacked)
	assert.Empty(t, acker.refused)
	assert.Equal(t, int64(1), worker.Sent())
	assert.Equal(t, int64(1), worker.Failed())
}

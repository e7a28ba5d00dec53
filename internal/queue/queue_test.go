package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	qos       int
	closed    bool
	failPub   error
	deliver   chan amqp.Delivery
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("expected durable queue")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if f.failPub != nil {
		return f.failPub
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Consume(_, _ string, autoAck, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	if autoAck {
		return nil, errors.New("expected manual ack")
	}
	return f.deliver, nil
}

func (f *fakeChannel) Qos(prefetch, _ int, _ bool) error {
	f.qos = prefetch
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPQueue_Publish(t *testing.T) {
	ch := &fakeChannel{}
	q := NewAMQPQueue(ch)

	require.NoError(t, q.Publish(context.Background(), ReminderTopic, map[string]any{"order_id": 7}))
	require.NoError(t, q.Publish(context.Background(), ReminderTopic, map[string]any{"order_id": 8}))

	assert.Equal(t, []string{ReminderTopic}, ch.declared, "queue declared once")
	assert.Equal(t, []string{ReminderTopic, ReminderTopic}, ch.keys)
	require.Len(t, ch.published, 2)

	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	_, err := uuid.Parse(msg.MessageId)
	assert.NoError(t, err)
	assert.NotEqual(t, msg.MessageId, ch.published[1].MessageId)

	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, 7, body["order_id"])
}

func TestAMQPQueue_PublishErrors(t *testing.T) {
	q := NewAMQPQueue(&fakeChannel{failPub: errors.New("channel closed")})
	err := q.Publish(context.Background(), ReminderTopic, 1)
	assert.ErrorContains(t, err, "channel closed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Publish(ctx, ReminderTopic, 1), context.Canceled)

	assert.Error(t, q.Publish(context.Background(), ReminderTopic, make(chan int)))
}

func TestAMQPQueue_Consume(t *testing.T) {
	ch := &fakeChannel{deliver: make(chan amqp.Delivery)}
	q := NewAMQPQueue(ch)

	msgs, err := q.Consume(ReminderTopic)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Equal(t, 1, ch.qos)
	assert.Equal(t, []string{ReminderTopic}, ch.declared)

	require.NoError(t, q.Close())
	assert.True(t, ch.closed)
}

func TestInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue()

	err := q.Publish(context.Background(), "nobody", 1)
	assert.Error(t, err)

	var mu sync.Mutex
	var got []any
	attempts := 0
	q.Subscribe("jobs", func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		got = append(got, payload)
		return errors.New("handler failed")
	})

	require.NoError(t, q.Publish(context.Background(), "jobs", 42))
	require.NoError(t, q.Close())

	assert.Equal(t, []any{42}, got)
	assert.Equal(t, 1, attempts, "failed jobs are not retried")
}

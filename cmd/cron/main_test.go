package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/crm-backend/internal/client"
	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/jobs"
	"github.com/unclebandit/crm-backend/internal/queue"
)

func TestBuildJobs(t *testing.T) {
	cfg := config.Config{
		ReminderQueue: "order_reminders",
		Logs: config.Logs{
			Heartbeat:     "/tmp/hb.txt",
			LowStock:      "/tmp/ls.txt",
			OrderReminder: "/tmp/or.txt",
		},
	}
	q := queue.NewInMemoryQueue()
	registry := buildJobs(cfg, client.New("http://localhost:8000/api"), q)

	for _, name := range jobNames() {
		require.Contains(t, registry, name)
	}

	hb := registry["heartbeat"].(*jobs.Heartbeat)
	assert.Equal(t, "/tmp/hb.txt", hb.Log.Path())

	rem := registry["reminders"].(*jobs.OrderReminder)
	assert.Equal(t, "/tmp/or.txt", rem.Log.Path())
	assert.Equal(t, "order_reminders", rem.Topic)
	assert.Same(t, q, rem.Queue)
}

func TestNewQueue_FallsBackToInMemory(t *testing.T) {
	q := newQueue(config.Config{ReminderQueue: "order_reminders"})
	_, ok := q.(*queue.InMemoryQueue)
	assert.True(t, ok)
	assert.NoError(t, q.Close())
}

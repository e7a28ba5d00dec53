package service

import (
	"fmt"
	"log"
	"math/rand"
	"sync/atomic"

	"github.com/unclebandit/crm-backend/internal/model"
)

// ReminderWorker delivers queued order reminders. Each message gets exactly
// one delivery attempt.
type ReminderWorker struct {
	JobChan  <-chan model.ReminderMessage
	SendFunc func(msg model.ReminderMessage) error

	sent   atomic.Int64
	failed atomic.Int64
}

func NewReminderWorker(jobChan <-chan model.ReminderMessage, sendFunc func(msg model.ReminderMessage) error) *ReminderWorker {
	return &ReminderWorker{
		JobChan:  jobChan,
		SendFunc: sendFunc,
	}
}

// Start processes jobs until JobChan is closed.
func (w *ReminderWorker) Start() {
	for msg := range w.JobChan {
		w.Handle(msg)
	}
}

// Handle makes the single delivery attempt for msg and reports the outcome.
func (w *ReminderWorker) Handle(msg model.ReminderMessage) error {
	if err := w.SendFunc(msg); err != nil {
		w.failed.Add(1)
		log.Printf("⚠️ Reminder for order %d to %s failed: %v", msg.OrderID, msg.Email, err)
		return err
	}
	w.sent.Add(1)
	log.Printf("✅ Reminder for order %d sent to %s", msg.OrderID, msg.Email)
	return nil
}

func (w *ReminderWorker) Sent() int64   { return w.sent.Load() }
func (w *ReminderWorker) Failed() int64 { return w.failed.Load() }

// MockEmailSender simulates an email gateway with 90% success.
func MockEmailSender(msg model.ReminderMessage) error {
	if rand.Float64() < 0.9 {
		return nil
	}
	return fmt.Errorf("mock email to %s failed", msg.Email)
}

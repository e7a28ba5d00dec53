package jobs

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/unclebandit/crm-backend/internal/auditlog"
	"github.com/unclebandit/crm-backend/internal/client"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/queue"
)

// ReminderDays is how many calendar days back an order may be and still get
// a reminder.
const ReminderDays = 7

// OrderReminder logs a reminder for every order placed on or after the
// calendar day ReminderDays ago and, when Queue is set, publishes it for
// delivery.
type OrderReminder struct {
	API   API
	Log   *auditlog.Writer
	Queue queue.Queue
	Topic string
	Now   func() time.Time
	// Out receives the operator summary; os.Stdout when nil.
	Out io.Writer
}

func (o *OrderReminder) Name() string { return "order-reminders" }

func (o *OrderReminder) Run(ctx context.Context) error {
	orders, err := o.API.AllOrders(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	now := nowOr(o.Now)
	cutoff := dateOf(now.AddDate(0, 0, -ReminderDays))
	ts := now.Format(ISOLayout)

	var lines []string
	var msgs []model.ReminderMessage
	for _, order := range orders {
		day, ok := parseOrderDate(order.OrderDate, now.Location())
		if !ok || day.Before(cutoff) {
			continue
		}
		if order.Customer == nil || order.Customer.Email == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: Reminder for Order %s sent to %s", ts, order.ID, order.Customer.Email))
		msg, err := reminderMessage(order, now)
		if err != nil {
			log.Printf("⚠️ [%s] not queueing reminder: %v", o.Name(), err)
			continue
		}
		msgs = append(msgs, msg)
	}

	if err := o.Log.Append(lines...); err != nil {
		return err
	}
	o.publish(ctx, msgs)

	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, "Order reminders processed!")
	return nil
}

func (o *OrderReminder) publish(ctx context.Context, msgs []model.ReminderMessage) {
	if o.Queue == nil {
		return
	}
	topic := o.Topic
	if topic == "" {
		topic = queue.ReminderTopic
	}
	for _, m := range msgs {
		if err := o.Queue.Publish(ctx, topic, m); err != nil {
			log.Printf("⚠️ [%s] failed to queue reminder for order %d: %v", o.Name(), m.OrderID, err)
		}
	}
}

func reminderMessage(order client.OrderSummary, now time.Time) (model.ReminderMessage, error) {
	id, err := order.ID.Int64()
	if err != nil {
		return model.ReminderMessage{}, fmt.Errorf("order id %q is not numeric", order.ID.String())
	}
	return model.ReminderMessage{
		OrderID:   id,
		Email:     order.Customer.Email,
		OrderDate: order.OrderDate,
		QueuedAt:  now.UTC(),
	}, nil
}

// parseOrderDate returns the calendar day of raw. A date-time with a zone
// offset is read in loc, so it lands on the same calendar as the cutoff. A
// plain date, or a date-time without an offset, is taken at face value.
func parseOrderDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return dateOf(t.In(loc)), true
	}
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		raw = raw[:i]
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

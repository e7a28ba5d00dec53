// Package jobs holds the scheduled maintenance jobs. Each job reaches the
// CRM only through its HTTP API and records what it did in an append-only
// log file. Jobs keep no state between runs and never retry.
package jobs

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/unclebandit/crm-backend/internal/auditlog"
	"github.com/unclebandit/crm-backend/internal/client"
)

const (
	HeartbeatLayout = "02/01/2006-15:04:05"
	// ISOLayout matches an ISO 8601 local timestamp with microseconds.
	ISOLayout = "2006-01-02T15:04:05.000000"
)

// API is the part of the CRM API the jobs call.
type API interface {
	Hello(ctx context.Context) (string, error)
	UpdateLowStockProducts(ctx context.Context) (*client.RestockResult, error)
	AllOrders(ctx context.Context, filter url.Values) ([]client.OrderSummary, error)
}

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunOnce runs job and reports a failure instead of returning it.
func RunOnce(ctx context.Context, job Job) bool {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Printf("❌ [%s] failed: %v", job.Name(), err)
		return false
	}
	log.Printf("✅ [%s] done in %s", job.Name(), time.Since(start).Round(time.Millisecond))
	return true
}

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

// Heartbeat probes the API and, when it answers, appends an "alive" line.
type Heartbeat struct {
	API API
	Log *auditlog.Writer
	Now func() time.Time
}

func (h *Heartbeat) Name() string { return "heartbeat" }

func (h *Heartbeat) Run(ctx context.Context) error {
	if _, err := h.API.Hello(ctx); err != nil {
		return fmt.Errorf("CRM did not answer hello: %w", err)
	}
	return h.Log.Append(nowOr(h.Now).Format(HeartbeatLayout) + " CRM is alive")
}

// LowStock triggers the restock mutation and logs every product it touched.
type LowStock struct {
	API API
	Log *auditlog.Writer
	Now func() time.Time
}

func (l *LowStock) Name() string { return "low-stock" }

func (l *LowStock) Run(ctx context.Context) error {
	res, err := l.API.UpdateLowStockProducts(ctx)
	if err != nil {
		return err
	}
	if len(res.UpdatedProducts) == 0 {
		return nil
	}

	ts := nowOr(l.Now).Format(ISOLayout)
	lines := make([]string, 0, len(res.UpdatedProducts))
	for _, p := range res.UpdatedProducts {
		lines = append(lines, fmt.Sprintf("%s: Restocked %s to %d", ts, p.Name, p.Stock))
	}
	return l.Log.Append(lines...)
}

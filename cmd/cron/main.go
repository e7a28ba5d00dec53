// cmd/cron/main.go runs the scheduled maintenance jobs, either one job per
// invocation (for crontab) or all of them on an in-process schedule.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/unclebandit/crm-backend/internal/auditlog"
	"github.com/unclebandit/crm-backend/internal/client"
	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/jobs"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/service"
)

func main() {
	if len(os.Args) != 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	q := newQueue(cfg)
	defer q.Close()
	registry := buildJobs(cfg, client.New(cfg.APIURL), q)

	cmd := os.Args[1]
	if cmd == "run" {
		code := runScheduled(cfg, registry)
		q.Close()
		os.Exit(code)
	}

	job, ok := registry[cmd]
	if !ok {
		usage()
	}
	// Failures are reported, not turned into a non-zero exit.
	jobs.RunOnce(context.Background(), job)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cron <%s|run>\n", strings.Join(jobNames(), "|"))
	os.Exit(2)
}

func jobNames() []string {
	return []string{"heartbeat", "restock", "reminders"}
}

func buildJobs(cfg config.Config, api jobs.API, q queue.Queue) map[string]jobs.Job {
	return map[string]jobs.Job{
		"heartbeat": &jobs.Heartbeat{API: api, Log: auditlog.New(cfg.Logs.Heartbeat)},
		"restock":   &jobs.LowStock{API: api, Log: auditlog.New(cfg.Logs.LowStock)},
		"reminders": &jobs.OrderReminder{
			API:   api,
			Log:   auditlog.New(cfg.Logs.OrderReminder),
			Queue: q,
			Topic: cfg.ReminderQueue,
		},
	}
}

// newQueue publishes to RabbitMQ when AMQP_URL is set. Otherwise, or when
// the broker is unreachable, reminders are delivered in-process.
func newQueue(cfg config.Config) queue.Queue {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL)
		if err == nil {
			log.Println("📡 Publishing reminders to RabbitMQ queue", cfg.ReminderQueue)
			return q
		}
		log.Println("⚠️ RabbitMQ unavailable, delivering reminders in-process:", err)
	}

	q := queue.NewInMemoryQueue()
	worker := service.NewReminderWorker(nil, service.MockEmailSender)
	q.Subscribe(cfg.ReminderQueue, func(payload any) error {
		msg, ok := payload.(model.ReminderMessage)
		if !ok {
			return fmt.Errorf("unexpected reminder payload %T", payload)
		}
		return worker.Handle(msg)
	})
	return q
}

func runScheduled(cfg config.Config, registry map[string]jobs.Job) int {
	scheduler := jobs.NewScheduler(
		jobs.Entry{Job: registry["heartbeat"], Every: cfg.Schedule.Heartbeat},
		jobs.Entry{Job: registry["restock"], Every: cfg.Schedule.LowStock},
		jobs.Entry{Job: registry["reminders"], Every: cfg.Schedule.OrderReminder},
	)
	scheduler.Start(context.Background())

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"scheduler": scheduler.Stop,
		},
	)
	exitCode := <-wait
	log.Printf("Cron exited with code: %d", exitCode)
	return exitCode
}

package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

type Entry struct {
	Job   Job
	Every time.Duration
}

// Scheduler runs each entry on its own ticker until stopped. Runs of
// different jobs may overlap; runs of the same job never do.
type Scheduler struct {
	entries []Entry

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
	cancel   context.CancelFunc
}

func NewScheduler(entries ...Entry) *Scheduler {
	return &Scheduler{entries: entries}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	var wg sync.WaitGroup
	for _, e := range s.entries {
		wg.Add(1)
		go func(e Entry) {
			defer wg.Done()
			s.run(runCtx, e)
		}(e)
		log.Printf("⏰ [%s] scheduled every %s", e.Job.Name(), e.Every)
	}

	go func() {
		wg.Wait()
		close(s.doneChan)
	}()
}

func (s *Scheduler) run(ctx context.Context, e Entry) {
	ticker := time.NewTicker(e.Every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunOnce(ctx, e.Job)
		}
	}
}

// Stop waits for running jobs to finish, cancelling them if ctx expires
// first.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.stopChan == nil {
		return nil
	}
	log.Println("Shutting down scheduler...")
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	select {
	case <-s.doneChan:
		s.cancel()
		log.Println("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.cancel()
		<-s.doneChan
		log.Println("Scheduler shutdown timeout exceeded")
		return ctx.Err()
	}
}

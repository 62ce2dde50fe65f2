package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/wellsta/internal/client/notify"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

type syncJob struct {
	ctx   context.Context
	op    string
	attrs []any
	fn    func(ctx context.Context) error
}

// Syncer runs best-effort remote calls in the background, one at a time
// and in the order they were queued. Failures are logged and reported as
// warnings; nothing is retried.
type Syncer struct {
	log   logging.Logger
	notes notify.Notifier

	mu      sync.Mutex
	queue   []syncJob
	running bool
	pending sync.WaitGroup
}

func NewSyncer(log logging.Logger, notes notify.Notifier) *Syncer {
	return &Syncer{log: log, notes: notes}
}

// Go queues fn. The job keeps ctx values but not its cancellation, so a
// finished request handler does not abort the sync.
func (s *Syncer) Go(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...any) {
	s.pending.Add(1)

	s.mu.Lock()
	s.queue = append(s.queue, syncJob{ctx: context.WithoutCancel(ctx), op: op, attrs: attrs, fn: fn})
	start := !s.running
	s.running = true
	s.mu.Unlock()

	if start {
		go s.drain()
	}
}

func (s *Syncer) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		job := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.run(job)
		s.pending.Done()
	}
}

func (s *Syncer) run(job syncJob) {
	if err := job.fn(job.ctx); err != nil {
		args := append([]any{"op", job.op, "err", err}, job.attrs...)
		s.log.Warn(job.ctx, "remote sync failed, keeping local state", args...)
		notify.Warn(job.ctx, s.notes, "Couldn't reach the server (%s). Your change is kept on this device.", job.op)
		return
	}
	s.log.Debug(job.ctx, "remote sync done", append([]any{"op", job.op}, job.attrs...)...)
}

// Flush blocks until every queued job has finished.
func (s *Syncer) Flush() {
	s.pending.Wait()
}

package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"footy/models"
)

// Config holds the dispatch queue tuning knobs
type Config struct {
	Workers     int
	QueueSize   int
	MaxRetries  int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	RatePerSec  float64
	RateBurst   int
}

// FailedFunc is the error sink for terminal job failures (retries exhausted
// or permanent). It never blocks or fails the producer.
type FailedFunc func(job *models.NotificationJob, err error)

// Queue is a bounded, rate-limited dispatch queue. A fixed pool of workers
// consumes notification jobs and performs the outbound send; a token bucket
// shared across all workers enforces the external API's aggregate ceiling,
// so bursts pile up in the queue instead of hitting the API.
type Queue struct {
	cfg      Config
	notifier Notifier
	onFailed FailedFunc
	limiter  *rate.Limiter
	jobs     chan *models.NotificationJob

	workerWG  sync.WaitGroup
	requeueWG sync.WaitGroup
	pending   sync.WaitGroup
	dropped   atomic.Int64

	runCtx    context.Context
	runCancel context.CancelFunc
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewQueue creates a dispatch queue. onFailed may be nil, in which case
// terminal failures are logged.
func NewQueue(cfg Config, notifier Notifier, onFailed FailedFunc) *Queue {
	if onFailed == nil {
		onFailed = func(job *models.NotificationJob, err error) {
			log.Errorf("Notification for match %d to recipient %d failed permanently: %v",
				job.MatchID, job.RecipientID, err)
		}
	}
	return &Queue{
		cfg:      cfg,
		notifier: notifier,
		onFailed: onFailed,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
		jobs:     make(chan *models.NotificationJob, cfg.QueueSize),
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled or Stop
// is called.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		q.runCtx, q.runCancel = context.WithCancel(ctx)

		for i := 0; i < q.cfg.Workers; i++ {
			q.workerWG.Add(1)
			go q.worker()
		}
		log.Infof("Dispatch queue started with %d workers", q.cfg.Workers)
	})
}

// Enqueue adds a job to the queue, blocking when the queue is full so the
// producer absorbs backpressure. Fails only when ctx is cancelled or the
// queue has been stopped.
func (q *Queue) Enqueue(ctx context.Context, job *models.NotificationJob) error {
	if q.runCtx == nil {
		return fmt.Errorf("dispatch queue not started")
	}

	q.pending.Add(1)
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		q.pending.Done()
		return ctx.Err()
	case <-q.runCtx.Done():
		q.pending.Done()
		return fmt.Errorf("dispatch queue stopped")
	}
}

// Drain waits until every enqueued job has reached a terminal state
// (delivered, failed, or dropped) or the deadline passes. Returns true if the
// queue fully drained.
func (q *Queue) Drain(deadline time.Duration) bool {
	done := make(chan struct{})
	go func() {
		q.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(deadline):
		return false
	}
}

// Stop cancels the workers, counts the jobs that never got sent, and logs the
// count. Jobs are ephemeral: an unsent reminder for an unclaimed match is
// rediscovered on the next scheduler scan after restart.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		if q.runCancel != nil {
			q.runCancel()
		}
		q.workerWG.Wait()

		// Wait out the retry timers so a late requeue cannot slip a job into
		// the channel after the drain below has counted it
		q.requeueWG.Wait()

		// Whatever is still queued will never be sent
		for {
			select {
			case <-q.jobs:
				q.dropped.Add(1)
				q.pending.Done()
			default:
				if n := q.dropped.Load(); n > 0 {
					log.Warnf("Dispatch queue stopped with %d undelivered jobs dropped", n)
				} else {
					log.Info("Dispatch queue stopped")
				}
				return
			}
		}
	})
}

func (q *Queue) worker() {
	defer q.workerWG.Done()

	for {
		// Fast-exit so stop wins over queued work
		select {
		case <-q.runCtx.Done():
			return
		default:
		}

		select {
		case <-q.runCtx.Done():
			return
		case job := <-q.jobs:
			q.process(job)
		}
	}
}

// process performs one delivery attempt and decides the job's fate
func (q *Queue) process(job *models.NotificationJob) {
	// The shared token bucket is the single choke point for outbound calls:
	// every send, first attempt or retry, acquires a token here.
	if err := q.limiter.Wait(q.runCtx); err != nil {
		q.dropped.Add(1)
		q.pending.Done()
		return
	}

	err := q.notifier.Send(q.runCtx, job.RecipientID, job.Payload)
	if err == nil {
		q.pending.Done()
		return
	}

	job.LastError = err.Error()

	if retryAfter, ok := IsRateLimited(err); ok {
		// Throttling, not an error: the attempt count is untouched
		log.Debugf("Recipient %d rate limited, requeueing after %s", job.RecipientID, retryAfter)
		q.requeueAfter(job, retryAfter)
		return
	}

	if IsPermanent(err) {
		q.onFailed(job, err)
		q.pending.Done()
		return
	}

	// Transient failure
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		q.onFailed(job, fmt.Errorf("retries exhausted after %d attempts: %w", job.Attempt, err))
		q.pending.Done()
		return
	}

	delay := q.backoff(job.Attempt)
	log.Debugf("Transient send failure for recipient %d (attempt %d), retrying in %s: %v",
		job.RecipientID, job.Attempt, delay, err)
	q.requeueAfter(job, delay)
}

// backoff returns the delay before retry number attempt, doubling from the
// base and never exceeding the cap.
func (q *Queue) backoff(attempt int) time.Duration {
	d := q.cfg.BackoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= q.cfg.BackoffCap {
			return q.cfg.BackoffCap
		}
	}
	if d > q.cfg.BackoffCap {
		d = q.cfg.BackoffCap
	}
	return d
}

// requeueAfter puts the job back on the queue once the delay elapses. The
// job stays pending the whole time, so Drain accounts for it.
func (q *Queue) requeueAfter(job *models.NotificationJob, delay time.Duration) {
	job.FireAt = time.Now().Add(delay)

	q.requeueWG.Add(1)
	go func() {
		defer q.requeueWG.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-q.runCtx.Done():
			q.dropped.Add(1)
			q.pending.Done()
		case <-timer.C:
			select {
			case q.jobs <- job:
			case <-q.runCtx.Done():
				q.dropped.Add(1)
				q.pending.Done()
			}
		}
	}()
}

package orchestrator

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"footy/dispatch"
	"footy/scheduler"
)

// Orchestrator owns the lifecycle of the reminder pipeline: it starts the
// scheduler loop and the dispatch worker pool, and tears them down in the
// order that loses the fewest notifications. It has no business logic.
type Orchestrator struct {
	scheduler     *scheduler.Scheduler
	queue         *dispatch.Queue
	drainDeadline time.Duration

	stopScheduler func()
}

// New creates an orchestrator
func New(sched *scheduler.Scheduler, queue *dispatch.Queue, drainDeadline time.Duration) *Orchestrator {
	return &Orchestrator{
		scheduler:     sched,
		queue:         queue,
		drainDeadline: drainDeadline,
	}
}

// Start launches the worker pool and then the scheduler loop
func (o *Orchestrator) Start(ctx context.Context) {
	o.queue.Start(ctx)
	o.stopScheduler = o.scheduler.Start(ctx)
	log.Info("Orchestrator started")
}

// Shutdown drains gracefully: the scheduler stops producing first, in-flight
// and queued jobs get until the drain deadline to finish, then the workers
// are cancelled and any leftovers are dropped with a logged count.
func (o *Orchestrator) Shutdown() {
	log.Info("Orchestrator shutting down...")

	if o.stopScheduler != nil {
		o.stopScheduler()
	}

	if o.queue.Drain(o.drainDeadline) {
		log.Info("Dispatch queue drained")
	} else {
		log.Warnf("Drain deadline (%s) exceeded, cancelling remaining jobs", o.drainDeadline)
	}

	o.queue.Stop()
	log.Info("Orchestrator stopped")
}

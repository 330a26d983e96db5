package scheduler

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"footy/models"
	"footy/service"
)

// Config holds the reminder scheduler tuning knobs
type Config struct {
	// PollInterval is how often the scan runs
	PollInterval time.Duration
	// ReminderLead is how long before kickoff the reminder fires
	ReminderLead time.Duration
	// Staleness is the ceiling past which a discovered match is claimed but
	// its reminder suppressed, so restarts never send confusingly late ones
	Staleness time.Duration
}

// Enqueuer accepts notification jobs for dispatch
type Enqueuer interface {
	Enqueue(ctx context.Context, job *models.NotificationJob) error
}

// Scheduler periodically scans for matches whose reminder window has opened,
// claims each one exactly once, and fans a notification job out per recipient.
type Scheduler struct {
	cfg     Config
	matches service.MatchService
	roster  service.RosterLookup
	queue   Enqueuer
}

// New creates a reminder scheduler
func New(cfg Config, matches service.MatchService, roster service.RosterLookup, queue Enqueuer) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		matches: matches,
		roster:  roster,
		queue:   queue,
	}
}

// Start runs the scan loop in the background and returns a cleanup function
// to stop it. The first scan runs immediately, so matches that came due while
// the process was down are delivered rather than silently skipped.
func (s *Scheduler) Start(ctx context.Context) func() {
	ticker := time.NewTicker(s.cfg.PollInterval)
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Reminder scheduler started (interval %s, lead %s)", s.cfg.PollInterval, s.cfg.ReminderLead)

		s.scan(ctx, time.Now())

		for {
			select {
			case <-ctx.Done():
				log.Info("Reminder scheduler shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Reminder scheduler shutting down (stop requested)...")
				return
			case <-ticker.C:
				s.scan(ctx, time.Now())
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// scan processes one tick. Errors are logged and retried on the next
// interval; a bad tick is never fatal to the process.
func (s *Scheduler) scan(ctx context.Context, now time.Time) {
	due, err := s.matches.DueForReminder(ctx, now, s.cfg.ReminderLead)
	if err != nil {
		log.Errorf("Error scanning for due matches: %v", err)
		return
	}

	for _, match := range due {
		claimed, err := s.matches.ClaimForReminder(ctx, match.ID)
		if err != nil {
			log.Errorf("Error claiming match %d: %v", match.ID, err)
			continue
		}
		if !claimed {
			// Another scheduler instance got there first, or the match was
			// cancelled between the scan and the claim
			continue
		}

		if age := now.Sub(match.ScheduledAt); age > s.cfg.Staleness {
			log.Warnf("Match %d is %s past kickoff, suppressing stale reminder", match.ID, age)
			continue
		}

		if err := s.enqueueReminders(ctx, match); err != nil {
			log.Errorf("Error enqueueing reminders for match %d: %v", match.ID, err)
		}
	}
}

// enqueueReminders resolves the recipient set of both clubs and enqueues one
// job per recipient. A recipient attached to both clubs gets a single job.
func (s *Scheduler) enqueueReminders(ctx context.Context, match *models.Match) error {
	recipients := make(map[int64]struct{})
	for _, clubID := range []int64{match.HomeClubID, match.AwayClubID} {
		members, err := s.roster.MembersOf(ctx, clubID)
		if err != nil {
			return fmt.Errorf("failed to resolve roster of club %d: %w", clubID, err)
		}
		for _, id := range members {
			recipients[id] = struct{}{}
		}
	}

	payload := fmt.Sprintf("Match reminder: kickoff at %s", match.ScheduledAt.Format(time.RFC1123))
	fireAt := match.ScheduledAt.Add(-s.cfg.ReminderLead)

	enqueued := 0
	for recipientID := range recipients {
		job := &models.NotificationJob{
			MatchID:     match.ID,
			RecipientID: recipientID,
			Payload:     payload,
			FireAt:      fireAt,
		}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			return fmt.Errorf("failed to enqueue job for recipient %d: %w", recipientID, err)
		}
		enqueued++
	}

	log.Infof("Match %d claimed, %d reminders enqueued", match.ID, enqueued)
	return nil
}

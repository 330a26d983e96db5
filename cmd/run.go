package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"footy/config"
	"footy/database"
	"footy/dispatch"
	"footy/events"
	"footy/notifier"
	"footy/orchestrator"
	"footy/repository"
	"footy/scheduler"
	"footy/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting footy bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	matchService := service.NewMatchService(uowFactory)
	roster := service.NewPlayerRosterLookup(uowFactory)

	// Initialize the Discord notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord notifier: %w", err)
	}

	// Initialize the dispatch queue and reminder scheduler
	queue := dispatch.NewQueue(dispatch.Config{
		Workers:     cfg.DispatchWorkers,
		QueueSize:   cfg.QueueSize,
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		BackoffCap:  cfg.BackoffCap,
		RatePerSec:  cfg.RatePerSec,
		RateBurst:   cfg.RateBurst,
	}, discordNotifier, nil)

	sched := scheduler.New(scheduler.Config{
		PollInterval: cfg.PollInterval,
		ReminderLead: cfg.ReminderLead,
		Staleness:    cfg.StalenessCeiling,
	}, matchService, roster, queue)

	orch := orchestrator.New(sched, queue, cfg.DrainDeadline)
	orch.Start(ctx)

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	orch.Shutdown()
	log.Info("Closing database connection...")

	return nil
}

// subscribeAuditLog logs committed ledger events. These fire only after their
// transaction commits, so the log reflects durable state.
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, event events.Event) {
		e := event.(events.TransferCompletedEvent)
		log.Infof("Transfer %d: player %d -> club %d for %d", e.TransferID, e.PlayerID, e.ToClubID, e.Fee)
	})
	bus.Subscribe(events.EventTypeBudgetChanged, func(ctx context.Context, event events.Event) {
		e := event.(events.BudgetChangedEvent)
		log.Infof("Club %d budget changed: %d -> %d", e.ClubID, e.OldBudget, e.NewBudget)
	})
	bus.Subscribe(events.EventTypeClubDeleted, func(ctx context.Context, event events.Event) {
		e := event.(events.ClubDeletedEvent)
		log.Infof("Club %d deleted, %d players released", e.ClubID, e.PlayersReleased)
	})
	bus.Subscribe(events.EventTypeMatchClaimed, func(ctx context.Context, event events.Event) {
		e := event.(events.MatchClaimedEvent)
		log.Infof("Match %d claimed for reminder delivery", e.MatchID)
	})
}

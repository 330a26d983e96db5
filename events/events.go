package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTransferCompleted EventType = "transfer_completed"
	EventTypeBudgetChanged     EventType = "budget_changed"
	EventTypeClubDeleted       EventType = "club_deleted"
	EventTypeMatchClaimed      EventType = "match_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TransferCompletedEvent represents a committed player transfer
type TransferCompletedEvent struct {
	TransferID int64
	GuildID    int64
	PlayerID   int64
	FromClubID *int64
	ToClubID   int64
	Fee        int64
}

func (e TransferCompletedEvent) Type() EventType {
	return EventTypeTransferCompleted
}

// BudgetChangedEvent represents a committed change to a club budget
type BudgetChangedEvent struct {
	ClubID    int64
	GuildID   int64
	OldBudget int64
	NewBudget int64
}

func (e BudgetChangedEvent) Type() EventType {
	return EventTypeBudgetChanged
}

// ClubDeletedEvent represents a club deletion, including how many of its
// players became free agents.
type ClubDeletedEvent struct {
	ClubID          int64
	GuildID         int64
	PlayersReleased int64
}

func (e ClubDeletedEvent) Type() EventType {
	return EventTypeClubDeleted
}

// MatchClaimedEvent represents a match claimed for reminder delivery
type MatchClaimedEvent struct {
	MatchID     int64
	GuildID     int64
	ScheduledAt time.Time
}

func (e MatchClaimedEvent) Type() EventType {
	return EventTypeMatchClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow subscriber never blocks the emitter.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and flushes
// them to the real bus only after the transaction commits. Rolled back
// transactions discard their events, so subscribers only ever see state that
// actually exists in the ledger.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops all pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

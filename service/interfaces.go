package service

import (
	"context"
	"time"

	"footy/events"
	"footy/models"
)

// ClubRepository defines the interface for club data access
type ClubRepository interface {
	// GetByID retrieves a club by id, nil if missing
	GetByID(ctx context.Context, id int64) (*models.Club, error)

	// GetByName retrieves a club by name within a guild, nil if missing
	GetByName(ctx context.Context, guildID int64, name string) (*models.Club, error)

	// Create creates a new club; returns ErrConflict on a duplicate name
	// within the guild
	Create(ctx context.Context, guildID int64, name string, budget int64) (*models.Club, error)

	// UpdateBudget sets a club's budget to an absolute value
	UpdateBudget(ctx context.Context, id int64, budget int64) error

	// AddBudget credits a club's budget atomically
	AddBudget(ctx context.Context, id int64, amount int64) error

	// DeductBudget debits a club's budget atomically, failing with
	// ErrInsufficientFunds if the budget cannot cover the amount
	DeductBudget(ctx context.Context, id int64, amount int64) error

	// Delete removes a club
	Delete(ctx context.Context, id int64) error

	// GetByGuildOrderedByBudget returns a guild's clubs, richest first
	GetByGuildOrderedByBudget(ctx context.Context, guildID int64, limit int) ([]*models.Club, error)
}

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByID retrieves a player by id, nil if missing
	GetByID(ctx context.Context, id int64) (*models.Player, error)

	// GetByIDForUpdate retrieves a player by id holding a row lock for the
	// remainder of the transaction, so concurrent transfers of the same
	// player serialize
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Player, error)

	// GetByName retrieves a player by name within a guild, nil if missing
	GetByName(ctx context.Context, guildID int64, name string) (*models.Player, error)

	// Create creates a new player; returns ErrConflict on a duplicate name
	// within the guild
	Create(ctx context.Context, player *models.Player) error

	// Update updates a player's name, value, position and age
	Update(ctx context.Context, player *models.Player) error

	// SetClub moves a player to a club, or to free agency when clubID is nil
	SetClub(ctx context.Context, playerID int64, clubID *int64) error

	// ReleaseByClub frees all players of a club, returning how many were released
	ReleaseByClub(ctx context.Context, clubID int64) (int64, error)

	// GetByClub returns all players attached to a club
	GetByClub(ctx context.Context, clubID int64) ([]*models.Player, error)

	// GetByGuildOrderedByValue returns a guild's players, most valuable first
	GetByGuildOrderedByValue(ctx context.Context, guildID int64, limit int) ([]*models.Player, error)
}

// TransferRepository defines the interface for the append-only transfer audit log
type TransferRepository interface {
	// Create appends a transfer record
	Create(ctx context.Context, transfer *models.Transfer) error

	// GetByGuild returns a guild's transfers, most recent first
	GetByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Transfer, error)
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	// Create creates a new scheduled match
	Create(ctx context.Context, match *models.Match) error

	// GetByID retrieves a match by id, nil if missing
	GetByID(ctx context.Context, id int64) (*models.Match, error)

	// DueForReminder returns scheduled matches whose reminder window has
	// opened (scheduled_at - lead <= now), earliest first with id as the
	// tie-break. Read-only; calling it repeatedly is safe.
	DueForReminder(ctx context.Context, now time.Time, lead time.Duration) ([]*models.Match, error)

	// ClaimForReminder transitions a match from scheduled to reminder_sent.
	// Returns false without error if the match was no longer scheduled, so
	// exactly one racing caller wins the claim.
	ClaimForReminder(ctx context.Context, id int64) (bool, error)

	// UpdateStatus transitions a match to completed or cancelled
	UpdateStatus(ctx context.Context, id int64, status models.MatchStatus) error

	// GetUpcoming returns a guild's matches still awaiting their reminder
	GetUpcoming(ctx context.Context, guildID int64, limit int) ([]*models.Match, error)
}

// EventPublisher publishes events scoped to a transaction
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents a transactional unit of work over the ledger store.
// Every repository obtained from it shares one transaction; Commit makes all
// of their mutations visible atomically.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ClubRepository() ClubRepository
	PlayerRepository() PlayerRepository
	TransferRepository() TransferRepository
	MatchRepository() MatchRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TransferService executes player transfers
type TransferService interface {
	// Transfer moves a player to the destination club for the given fee as
	// one atomic operation: destination debited, source credited, player
	// reattached, audit record appended.
	Transfer(ctx context.Context, playerID int64, toClubID int64, fee int64) (*models.TransferResult, error)
}

// ClubService defines administrative club operations
type ClubService interface {
	// CreateClub creates a club with a starting budget
	CreateClub(ctx context.Context, guildID int64, name string, budget int64) (*models.Club, error)

	// DeleteClub deletes a club and frees its players
	DeleteClub(ctx context.Context, id int64) error

	// SetBudget sets a club's budget to an absolute non-negative value
	SetBudget(ctx context.Context, id int64, budget int64) (*models.Club, error)

	// GetClub retrieves a club by id
	GetClub(ctx context.Context, id int64) (*models.Club, error)
}

// PlayerService defines administrative player operations
type PlayerService interface {
	// CreatePlayer registers a player, optionally attached to a club
	CreatePlayer(ctx context.Context, guildID int64, name string, clubID *int64, value int64, position string, age int) (*models.Player, error)

	// UpdatePlayer updates a player's attributes (not club attachment)
	UpdatePlayer(ctx context.Context, id int64, name string, value int64, position string, age int) (*models.Player, error)

	// ReleasePlayer detaches a player from their club
	ReleasePlayer(ctx context.Context, id int64) error
}

// MatchService defines match registry operations
type MatchService interface {
	// ScheduleMatch creates a match between two distinct clubs
	ScheduleMatch(ctx context.Context, guildID int64, homeClubID, awayClubID int64, scheduledAt time.Time) (*models.Match, error)

	// CompleteMatch marks a match as completed
	CompleteMatch(ctx context.Context, id int64) error

	// CancelMatch marks a match as cancelled
	CancelMatch(ctx context.Context, id int64) error

	// DueForReminder returns matches whose reminder window has opened
	DueForReminder(ctx context.Context, now time.Time, lead time.Duration) ([]*models.Match, error)

	// ClaimForReminder atomically claims a match for reminder delivery
	ClaimForReminder(ctx context.Context, id int64) (bool, error)

	// UpcomingMatches returns a guild's matches still awaiting their reminder
	UpcomingMatches(ctx context.Context, guildID int64, limit int) ([]*models.Match, error)
}

// StatsService defines the read-only statistics queries
type StatsService interface {
	// TopPlayersByValue returns a guild's players ordered by value descending
	TopPlayersByValue(ctx context.Context, guildID int64, limit int) ([]*models.Player, error)

	// TopClubsByBudget returns a guild's clubs ordered by budget descending
	TopClubsByBudget(ctx context.Context, guildID int64, limit int) ([]*models.Club, error)

	// RecentTransfers returns a guild's transfer history, most recent first
	RecentTransfers(ctx context.Context, guildID int64, limit int) ([]*models.Transfer, error)
}

// RosterLookup resolves the notification recipients of a club
type RosterLookup interface {
	// MembersOf returns the recipient ids associated with a club
	MembersOf(ctx context.Context, clubID int64) ([]int64, error)
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"footy/database"
	"footy/events"
	"footy/service"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	clubRepo         service.ClubRepository
	playerRepo       service.PlayerRepository
	transferRepo     service.TransferRepository
	matchRepo        service.MatchRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction and binds all repositories to it
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.clubRepo = newClubRepositoryWithTx(tx)
	u.playerRepo = newPlayerRepositoryWithTx(tx)
	u.transferRepo = newTransferRepositoryWithTx(tx)
	u.matchRepo = newMatchRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events become visible only once the mutations they describe are durable
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events.
// A no-op after Commit, so defer uow.Rollback() is always safe.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// ClubRepository returns the club repository for this unit of work
func (u *unitOfWork) ClubRepository() service.ClubRepository {
	if u.clubRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.clubRepo
}

// PlayerRepository returns the player repository for this unit of work
func (u *unitOfWork) PlayerRepository() service.PlayerRepository {
	if u.playerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.playerRepo
}

// TransferRepository returns the transfer repository for this unit of work
func (u *unitOfWork) TransferRepository() service.TransferRepository {
	if u.transferRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transferRepo
}

// MatchRepository returns the match repository for this unit of work
func (u *unitOfWork) MatchRepository() service.MatchRepository {
	if u.matchRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.matchRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}

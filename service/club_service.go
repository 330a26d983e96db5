package service

import (
	"context"
	"fmt"

	"footy/events"
	"footy/models"
)

type clubService struct {
	uowFactory UnitOfWorkFactory
}

// NewClubService creates a new club service
func NewClubService(uowFactory UnitOfWorkFactory) ClubService {
	return &clubService{
		uowFactory: uowFactory,
	}
}

// CreateClub creates a club with a starting budget
func (s *clubService) CreateClub(ctx context.Context, guildID int64, name string, budget int64) (*models.Club, error) {
	if name == "" {
		return nil, fmt.Errorf("club name must not be empty: %w", ErrInvalidName)
	}
	if budget < 0 {
		return nil, fmt.Errorf("budget must be non-negative: %w", ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	club, err := uow.ClubRepository().Create(ctx, guildID, name, budget)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return club, nil
}

// DeleteClub deletes a club. Its players become free agents inside the same
// transaction, so no player ever references a missing club.
func (s *clubService) DeleteClub(ctx context.Context, id int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	club, err := uow.ClubRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get club: %w", err)
	}
	if club == nil {
		return fmt.Errorf("club %d: %w", id, ErrNotFound)
	}

	released, err := uow.PlayerRepository().ReleaseByClub(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to release players: %w", err)
	}

	if err := uow.ClubRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}

	uow.EventBus().Publish(events.ClubDeletedEvent{
		ClubID:          club.ID,
		GuildID:         club.GuildID,
		PlayersReleased: released,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetBudget sets a club's budget to an absolute value. Negative budgets are
// rejected, not clamped.
func (s *clubService) SetBudget(ctx context.Context, id int64, budget int64) (*models.Club, error) {
	if budget < 0 {
		return nil, fmt.Errorf("budget must be non-negative: %w", ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	club, err := uow.ClubRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	if club == nil {
		return nil, fmt.Errorf("club %d: %w", id, ErrNotFound)
	}

	if err := uow.ClubRepository().UpdateBudget(ctx, id, budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	uow.EventBus().Publish(events.BudgetChangedEvent{
		ClubID:    club.ID,
		GuildID:   club.GuildID,
		OldBudget: club.Budget,
		NewBudget: budget,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	club.Budget = budget
	return club, nil
}

// GetClub retrieves a club by id
func (s *clubService) GetClub(ctx context.Context, id int64) (*models.Club, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	club, err := uow.ClubRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	if club == nil {
		return nil, fmt.Errorf("club %d: %w", id, ErrNotFound)
	}

	return club, nil
}

package service

import (
	"context"
	"fmt"

	"footy/models"
)

type playerService struct {
	uowFactory UnitOfWorkFactory
}

// NewPlayerService creates a new player service
func NewPlayerService(uowFactory UnitOfWorkFactory) PlayerService {
	return &playerService{
		uowFactory: uowFactory,
	}
}

// CreatePlayer registers a player, optionally attached to a club
func (s *playerService) CreatePlayer(ctx context.Context, guildID int64, name string, clubID *int64, value int64, position string, age int) (*models.Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player name must not be empty: %w", ErrInvalidName)
	}
	if value < 0 {
		return nil, fmt.Errorf("player value must be non-negative: %w", ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if clubID != nil {
		club, err := uow.ClubRepository().GetByID(ctx, *clubID)
		if err != nil {
			return nil, fmt.Errorf("failed to get club: %w", err)
		}
		if club == nil {
			return nil, fmt.Errorf("club %d: %w", *clubID, ErrNotFound)
		}
	}

	player := &models.Player{
		GuildID:  guildID,
		Name:     name,
		ClubID:   clubID,
		Value:    value,
		Position: position,
		Age:      age,
	}
	if err := uow.PlayerRepository().Create(ctx, player); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return player, nil
}

// UpdatePlayer updates a player's attributes. Club attachment is owned by the
// transfer engine and cannot be changed here.
func (s *playerService) UpdatePlayer(ctx context.Context, id int64, name string, value int64, position string, age int) (*models.Player, error) {
	if value < 0 {
		return nil, fmt.Errorf("player value must be non-negative: %w", ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, fmt.Errorf("player %d: %w", id, ErrNotFound)
	}

	player.Name = name
	player.Value = value
	player.Position = position
	player.Age = age
	if err := uow.PlayerRepository().Update(ctx, player); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return player, nil
}

// ReleasePlayer detaches a player from their club
func (s *playerService) ReleasePlayer(ctx context.Context, id int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return fmt.Errorf("player %d: %w", id, ErrNotFound)
	}

	if err := uow.PlayerRepository().SetClub(ctx, id, nil); err != nil {
		return fmt.Errorf("failed to release player: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

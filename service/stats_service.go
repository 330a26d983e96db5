package service

import (
	"context"
	"fmt"

	"footy/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// TopPlayersByValue returns a guild's players ordered by value descending
func (s *statsService) TopPlayersByValue(ctx context.Context, guildID int64, limit int) ([]*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PlayerRepository().GetByGuildOrderedByValue(ctx, guildID, limit)
}

// TopClubsByBudget returns a guild's clubs ordered by budget descending
func (s *statsService) TopClubsByBudget(ctx context.Context, guildID int64, limit int) ([]*models.Club, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ClubRepository().GetByGuildOrderedByBudget(ctx, guildID, limit)
}

// RecentTransfers returns a guild's transfer history, most recent first
func (s *statsService) RecentTransfers(ctx context.Context, guildID int64, limit int) ([]*models.Transfer, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransferRepository().GetByGuild(ctx, guildID, limit)
}

package service

import (
	"context"
	"fmt"
	"time"

	"footy/events"
	"footy/models"
)

type matchService struct {
	uowFactory UnitOfWorkFactory
}

// NewMatchService creates a new match service
func NewMatchService(uowFactory UnitOfWorkFactory) MatchService {
	return &matchService{
		uowFactory: uowFactory,
	}
}

// ScheduleMatch creates a match between two distinct clubs of the same guild
func (s *matchService) ScheduleMatch(ctx context.Context, guildID int64, homeClubID, awayClubID int64, scheduledAt time.Time) (*models.Match, error) {
	if homeClubID == awayClubID {
		return nil, fmt.Errorf("a club cannot play itself: %w", ErrInvalidMatch)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for _, clubID := range []int64{homeClubID, awayClubID} {
		club, err := uow.ClubRepository().GetByID(ctx, clubID)
		if err != nil {
			return nil, fmt.Errorf("failed to get club: %w", err)
		}
		if club == nil {
			return nil, fmt.Errorf("club %d: %w", clubID, ErrNotFound)
		}
		if club.GuildID != guildID {
			return nil, fmt.Errorf("club %d belongs to another guild: %w", clubID, ErrInvalidMatch)
		}
	}

	match := &models.Match{
		GuildID:     guildID,
		HomeClubID:  homeClubID,
		AwayClubID:  awayClubID,
		ScheduledAt: scheduledAt,
		Status:      models.MatchStatusScheduled,
	}
	if err := uow.MatchRepository().Create(ctx, match); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return match, nil
}

// CompleteMatch marks a match as completed
func (s *matchService) CompleteMatch(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.MatchStatusCompleted)
}

// CancelMatch marks a match as cancelled. A cancelled match is never claimed
// by the reminder scheduler.
func (s *matchService) CancelMatch(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.MatchStatusCancelled)
}

func (s *matchService) transition(ctx context.Context, id int64, status models.MatchStatus) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.MatchRepository().UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpcomingMatches returns a guild's matches still awaiting their reminder
func (s *matchService) UpcomingMatches(ctx context.Context, guildID int64, limit int) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.MatchRepository().GetUpcoming(ctx, guildID, limit)
}

// DueForReminder returns matches whose reminder window has opened
func (s *matchService) DueForReminder(ctx context.Context, now time.Time, lead time.Duration) ([]*models.Match, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.MatchRepository().DueForReminder(ctx, now, lead)
}

// ClaimForReminder atomically claims a match for reminder delivery. Exactly
// one caller sees true for a given match, however many schedulers race.
func (s *matchService) ClaimForReminder(ctx context.Context, id int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	claimed, err := uow.MatchRepository().ClaimForReminder(ctx, id)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	match, err := uow.MatchRepository().GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get claimed match: %w", err)
	}
	uow.EventBus().Publish(events.MatchClaimedEvent{
		MatchID:     match.ID,
		GuildID:     match.GuildID,
		ScheduledAt: match.ScheduledAt,
	})

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

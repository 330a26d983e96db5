package service

import (
	"context"
	"fmt"

	"footy/events"
	"footy/models"
)

type transferService struct {
	uowFactory UnitOfWorkFactory
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory) TransferService {
	return &transferService{
		uowFactory: uowFactory,
	}
}

// Transfer executes a player transfer as one atomic operation: the
// destination club is debited, the source club (if any) credited, the player
// reattached, and an immutable audit record appended. Any failure rolls back
// the whole transaction, so no partial financial state is ever visible.
func (s *transferService) Transfer(ctx context.Context, playerID int64, toClubID int64, fee int64) (*models.TransferResult, error) {
	if fee < 0 {
		return nil, fmt.Errorf("fee must be non-negative: %w", ErrInvalidTransfer)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// The row lock serializes concurrent transfers of the same player: the
	// second transfer blocks here and then observes the committed club
	// reference of the first.
	player, err := uow.PlayerRepository().GetByIDForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}

	if player.ClubID != nil && *player.ClubID == toClubID {
		return nil, fmt.Errorf("player %d already belongs to club %d: %w", playerID, toClubID, ErrInvalidTransfer)
	}

	dest, err := uow.ClubRepository().GetByID(ctx, toClubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination club: %w", err)
	}
	if dest == nil {
		return nil, fmt.Errorf("destination club %d: %w", toClubID, ErrNotFound)
	}

	var source *models.Club
	if player.ClubID != nil {
		source, err = uow.ClubRepository().GetByID(ctx, *player.ClubID)
		if err != nil {
			return nil, fmt.Errorf("failed to get source club: %w", err)
		}
		if source == nil {
			return nil, fmt.Errorf("source club %d: %w", *player.ClubID, ErrNotFound)
		}
	}

	if dest.Budget < fee {
		return nil, fmt.Errorf("club %d has %d, needs %d: %w", dest.ID, dest.Budget, fee, ErrInsufficientFunds)
	}

	if fee > 0 {
		if err := uow.ClubRepository().DeductBudget(ctx, dest.ID, fee); err != nil {
			return nil, fmt.Errorf("failed to debit destination club: %w", err)
		}
		if source != nil {
			if err := uow.ClubRepository().AddBudget(ctx, source.ID, fee); err != nil {
				return nil, fmt.Errorf("failed to credit source club: %w", err)
			}
		}
	}

	if err := uow.PlayerRepository().SetClub(ctx, player.ID, &toClubID); err != nil {
		return nil, fmt.Errorf("failed to move player: %w", err)
	}

	transfer := &models.Transfer{
		GuildID:    player.GuildID,
		PlayerID:   player.ID,
		FromClubID: player.ClubID,
		ToClubID:   toClubID,
		Fee:        fee,
	}
	if err := uow.TransferRepository().Create(ctx, transfer); err != nil {
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	uow.EventBus().Publish(events.TransferCompletedEvent{
		TransferID: transfer.ID,
		GuildID:    transfer.GuildID,
		PlayerID:   transfer.PlayerID,
		FromClubID: transfer.FromClubID,
		ToClubID:   transfer.ToClubID,
		Fee:        transfer.Fee,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &models.TransferResult{
		Transfer:   transfer,
		PlayerName: player.Name,
		ToBudget:   dest.Budget - fee,
	}
	if source != nil {
		result.FromBudget = source.Budget + fee
	}
	return result, nil
}

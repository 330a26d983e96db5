package service

import (
	"context"
	"fmt"
)

type playerRoster struct {
	uowFactory UnitOfWorkFactory
}

// NewPlayerRosterLookup resolves a club's reminder recipients from its
// players in the ledger. Richer resolution (Discord role membership) belongs
// to the chat surface, behind the same interface.
func NewPlayerRosterLookup(uowFactory UnitOfWorkFactory) RosterLookup {
	return &playerRoster{
		uowFactory: uowFactory,
	}
}

// MembersOf returns the ids of the club's players
func (r *playerRoster) MembersOf(ctx context.Context, clubID int64) ([]int64, error) {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	players, err := uow.PlayerRepository().GetByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get players of club %d: %w", clubID, err)
	}

	ids := make([]int64, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

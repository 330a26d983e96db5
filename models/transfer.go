package models

import (
	"time"
)

// Transfer is an append-only audit record of a completed player transfer.
// FromClubID is nil for free-agent signings.
type Transfer struct {
	ID         int64     `db:"id"`
	GuildID    int64     `db:"guild_id"`
	PlayerID   int64     `db:"player_id"`
	FromClubID *int64    `db:"from_club_id"`
	ToClubID   int64     `db:"to_club_id"`
	Fee        int64     `db:"fee"`
	CreatedAt  time.Time `db:"created_at"`
}

// TransferResult summarizes a completed transfer for the caller.
type TransferResult struct {
	Transfer   *Transfer
	PlayerName string
	FromBudget int64
	ToBudget   int64
}

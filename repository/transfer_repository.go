package repository

import (
	"context"
	"fmt"

	"footy/database"
	"footy/models"
)

// TransferRepository implements the service.TransferRepository interface.
// Transfers are an append-only audit log; there are no update or delete paths.
type TransferRepository struct {
	q queryable
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *database.DB) *TransferRepository {
	return &TransferRepository{q: db.Pool}
}

// newTransferRepositoryWithTx creates a new transfer repository bound to a transaction
func newTransferRepositoryWithTx(tx queryable) *TransferRepository {
	return &TransferRepository{q: tx}
}

// Create appends a transfer record, filling in the generated id and timestamp
func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	query := `
		INSERT INTO transfers (guild_id, player_id, from_club_id, to_club_id, fee)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transfer.GuildID,
		transfer.PlayerID,
		transfer.FromClubID,
		transfer.ToClubID,
		transfer.Fee,
	).Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transfer of player %d: %w", transfer.PlayerID, err)
	}

	return nil
}

// GetByGuild returns a guild's transfers, most recent first
func (r *TransferRepository) GetByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Transfer, error) {
	query := `
		SELECT id, guild_id, player_id, from_club_id, to_club_id, fee, created_at
		FROM transfers
		WHERE guild_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfers for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var transfers []*models.Transfer
	for rows.Next() {
		var transfer models.Transfer
		err := rows.Scan(
			&transfer.ID,
			&transfer.GuildID,
			&transfer.PlayerID,
			&transfer.FromClubID,
			&transfer.ToClubID,
			&transfer.Fee,
			&transfer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, &transfer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	return transfers, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"footy/database"
	"footy/models"
	"footy/service"
)

// ClubRepository implements the service.ClubRepository interface
type ClubRepository struct {
	q queryable
}

// NewClubRepository creates a new club repository
func NewClubRepository(db *database.DB) *ClubRepository {
	return &ClubRepository{q: db.Pool}
}

// newClubRepositoryWithTx creates a new club repository bound to a transaction
func newClubRepositoryWithTx(tx queryable) *ClubRepository {
	return &ClubRepository{q: tx}
}

// GetByID retrieves a club by id
func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	query := `
		SELECT id, guild_id, name, budget, created_at, updated_at
		FROM clubs
		WHERE id = $1
	`

	var club models.Club
	err := r.q.QueryRow(ctx, query, id).Scan(
		&club.ID,
		&club.GuildID,
		&club.Name,
		&club.Budget,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club %d: %w", id, err)
	}

	return &club, nil
}

// GetByName retrieves a club by name within a guild
func (r *ClubRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.Club, error) {
	query := `
		SELECT id, guild_id, name, budget, created_at, updated_at
		FROM clubs
		WHERE guild_id = $1 AND name = $2
	`

	var club models.Club
	err := r.q.QueryRow(ctx, query, guildID, name).Scan(
		&club.ID,
		&club.GuildID,
		&club.Name,
		&club.Budget,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club %q in guild %d: %w", name, guildID, err)
	}

	return &club, nil
}

// Create creates a new club
func (r *ClubRepository) Create(ctx context.Context, guildID int64, name string, budget int64) (*models.Club, error) {
	query := `
		INSERT INTO clubs (guild_id, name, budget)
		VALUES ($1, $2, $3)
		RETURNING id, guild_id, name, budget, created_at, updated_at
	`

	var club models.Club
	err := r.q.QueryRow(ctx, query, guildID, name, budget).Scan(
		&club.ID,
		&club.GuildID,
		&club.Name,
		&club.Budget,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("club %q already exists in guild %d: %w", name, guildID, service.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create club %q: %w", name, err)
	}

	return &club, nil
}

// UpdateBudget sets a club's budget to an absolute value
func (r *ClubRepository) UpdateBudget(ctx context.Context, id int64, budget int64) error {
	query := `
		UPDATE clubs
		SET budget = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, budget, id)
	if err != nil {
		return fmt.Errorf("failed to update budget for club %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("club %d: %w", id, service.ErrNotFound)
	}

	return nil
}

// AddBudget credits a club's budget atomically
func (r *ClubRepository) AddBudget(ctx context.Context, id int64, amount int64) error {
	query := `
		UPDATE clubs
		SET budget = budget + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to add budget for club %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("club %d: %w", id, service.ErrNotFound)
	}

	return nil
}

// DeductBudget debits a club's budget atomically. The guarded update touches
// zero rows when the budget cannot cover the amount, so the budget can never
// go negative even under concurrent debits.
func (r *ClubRepository) DeductBudget(ctx context.Context, id int64, amount int64) error {
	query := `
		UPDATE clubs
		SET budget = budget - $1, updated_at = NOW()
		WHERE id = $2 AND budget >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to deduct budget for club %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		club, err := r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check club %d: %w", id, err)
		}
		if club == nil {
			return fmt.Errorf("club %d: %w", id, service.ErrNotFound)
		}
		return fmt.Errorf("club %d has %d, needs %d: %w", id, club.Budget, amount, service.ErrInsufficientFunds)
	}

	return nil
}

// Delete removes a club. Player references are freed by the caller inside the
// same transaction before this runs.
func (r *ClubRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete club %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("club %d: %w", id, service.ErrNotFound)
	}

	return nil
}

// GetByGuildOrderedByBudget returns a guild's clubs, richest first
func (r *ClubRepository) GetByGuildOrderedByBudget(ctx context.Context, guildID int64, limit int) ([]*models.Club, error) {
	query := `
		SELECT id, guild_id, name, budget, created_at, updated_at
		FROM clubs
		WHERE guild_id = $1
		ORDER BY budget DESC, id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get clubs for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		var club models.Club
		err := rows.Scan(
			&club.ID,
			&club.GuildID,
			&club.Name,
			&club.Budget,
			&club.CreatedAt,
			&club.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan club: %w", err)
		}
		clubs = append(clubs, &club)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clubs: %w", err)
	}

	return clubs, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"footy/database"
	"footy/models"
	"footy/service"
)

// MatchRepository implements the service.MatchRepository interface
type MatchRepository struct {
	q queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

// newMatchRepositoryWithTx creates a new match repository bound to a transaction
func newMatchRepositoryWithTx(tx queryable) *MatchRepository {
	return &MatchRepository{q: tx}
}

const matchColumns = `id, guild_id, home_club_id, away_club_id, scheduled_at, status, created_at, updated_at`

func scanMatch(row pgx.Row) (*models.Match, error) {
	var match models.Match
	err := row.Scan(
		&match.ID,
		&match.GuildID,
		&match.HomeClubID,
		&match.AwayClubID,
		&match.ScheduledAt,
		&match.Status,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// Create creates a new scheduled match, filling in the generated id and timestamps
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (guild_id, home_club_id, away_club_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}

	err := r.q.QueryRow(ctx, query,
		match.GuildID,
		match.HomeClubID,
		match.AwayClubID,
		match.ScheduledAt,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by id
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}

	return match, nil
}

// DueForReminder returns scheduled matches whose reminder window has opened.
// Pure read: repeated calls return the same matches until someone claims them.
func (r *MatchRepository) DueForReminder(ctx context.Context, now time.Time, lead time.Duration) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, models.MatchStatusScheduled, now.Add(lead))
	if err != nil {
		return nil, fmt.Errorf("failed to query due matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}

// ClaimForReminder is a conditional compare-and-set on the match status.
// The WHERE clause touches zero rows unless the match is still scheduled, so
// when multiple scheduler instances race, exactly one sees true.
func (r *MatchRepository) ClaimForReminder(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE matches
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.Exec(ctx, query, models.MatchStatusReminderSent, id, models.MatchStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("failed to claim match %d: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateStatus transitions a match to completed or cancelled
func (r *MatchRepository) UpdateStatus(ctx context.Context, id int64, status models.MatchStatus) error {
	query := `
		UPDATE matches
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of match %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %d: %w", id, service.ErrNotFound)
	}

	return nil
}

// GetUpcoming returns a guild's matches still awaiting their reminder
func (r *MatchRepository) GetUpcoming(ctx context.Context, guildID int64, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE guild_id = $1 AND status = $2
		ORDER BY scheduled_at ASC, id ASC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, guildID, models.MatchStatusScheduled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming matches for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}

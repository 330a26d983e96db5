package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"footy/database"
	"footy/models"
	"footy/service"
)

// PlayerRepository implements the service.PlayerRepository interface
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository bound to a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

const playerColumns = `id, guild_id, name, club_id, value, position, age, created_at, updated_at`

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var player models.Player
	err := row.Scan(
		&player.ID,
		&player.GuildID,
		&player.Name,
		&player.ClubID,
		&player.Value,
		&player.Position,
		&player.Age,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// GetByID retrieves a player by id
func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}

	return player, nil
}

// GetByIDForUpdate retrieves a player by id with a row lock. Concurrent
// transfers of the same player block here until the first transaction
// commits, then observe its updated club reference.
func (r *PlayerRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1 FOR UPDATE`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock player %d: %w", id, err)
	}

	return player, nil
}

// GetByName retrieves a player by name within a guild
func (r *PlayerRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE guild_id = $1 AND name = $2`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, guildID, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %q in guild %d: %w", name, guildID, err)
	}

	return player, nil
}

// Create creates a new player, filling in the generated id and timestamps
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (guild_id, name, club_id, value, position, age)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		player.GuildID,
		player.Name,
		player.ClubID,
		player.Value,
		player.Position,
		player.Age,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("player %q already exists in guild %d: %w", player.Name, player.GuildID, service.ErrConflict)
		}
		return fmt.Errorf("failed to create player %q: %w", player.Name, err)
	}

	return nil
}

// Update updates a player's attributes. Club attachment is deliberately not
// updatable here; only SetClub (driven by the transfer engine) moves players.
func (r *PlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET name = $1, value = $2, position = $3, age = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.q.Exec(ctx, query, player.Name, player.Value, player.Position, player.Age, player.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("player %q already exists in guild %d: %w", player.Name, player.GuildID, service.ErrConflict)
		}
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("player %d: %w", player.ID, service.ErrNotFound)
	}

	return nil
}

// SetClub moves a player to a club, or to free agency when clubID is nil
func (r *PlayerRepository) SetClub(ctx context.Context, playerID int64, clubID *int64) error {
	query := `
		UPDATE players
		SET club_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, clubID, playerID)
	if err != nil {
		return fmt.Errorf("failed to set club for player %d: %w", playerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("player %d: %w", playerID, service.ErrNotFound)
	}

	return nil
}

// ReleaseByClub frees all players of a club
func (r *PlayerRepository) ReleaseByClub(ctx context.Context, clubID int64) (int64, error) {
	query := `
		UPDATE players
		SET club_id = NULL, updated_at = NOW()
		WHERE club_id = $1
	`

	result, err := r.q.Exec(ctx, query, clubID)
	if err != nil {
		return 0, fmt.Errorf("failed to release players of club %d: %w", clubID, err)
	}

	return result.RowsAffected(), nil
}

// GetByClub returns all players attached to a club
func (r *PlayerRepository) GetByClub(ctx context.Context, clubID int64) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE club_id = $1 ORDER BY id ASC`

	rows, err := r.q.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get players of club %d: %w", clubID, err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

// GetByGuildOrderedByValue returns a guild's players, most valuable first
func (r *PlayerRepository) GetByGuildOrderedByValue(ctx context.Context, guildID int64, limit int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE guild_id = $1 ORDER BY value DESC, id ASC LIMIT $2`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get players for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	return collectPlayers(rows)
}

func collectPlayers(rows pgx.Rows) ([]*models.Player, error) {
	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"footy/database"
	"footy/models"
)

// CreateTestClub inserts a club directly and returns it
func CreateTestClub(t *testing.T, db *database.DB, guildID int64, name string, budget int64) *models.Club {
	var club models.Club
	err := db.QueryRow(context.Background(),
		`INSERT INTO clubs (guild_id, name, budget) VALUES ($1, $2, $3)
		 RETURNING id, guild_id, name, budget, created_at, updated_at`,
		guildID, name, budget,
	).Scan(&club.ID, &club.GuildID, &club.Name, &club.Budget, &club.CreatedAt, &club.UpdatedAt)
	require.NoError(t, err)
	return &club
}

// CreateTestPlayer inserts a player directly and returns it
func CreateTestPlayer(t *testing.T, db *database.DB, guildID int64, name string, clubID *int64, value int64) *models.Player {
	var player models.Player
	err := db.QueryRow(context.Background(),
		`INSERT INTO players (guild_id, name, club_id, value, position, age)
		 VALUES ($1, $2, $3, $4, 'Forward', 25)
		 RETURNING id, guild_id, name, club_id, value, position, age, created_at, updated_at`,
		guildID, name, clubID, value,
	).Scan(&player.ID, &player.GuildID, &player.Name, &player.ClubID, &player.Value,
		&player.Position, &player.Age, &player.CreatedAt, &player.UpdatedAt)
	require.NoError(t, err)
	return &player
}

// CreateTestMatch inserts a scheduled match directly and returns it
func CreateTestMatch(t *testing.T, db *database.DB, guildID, homeClubID, awayClubID int64, scheduledAt time.Time) *models.Match {
	var match models.Match
	err := db.QueryRow(context.Background(),
		`INSERT INTO matches (guild_id, home_club_id, away_club_id, scheduled_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, guild_id, home_club_id, away_club_id, scheduled_at, status, created_at, updated_at`,
		guildID, homeClubID, awayClubID, scheduledAt,
	).Scan(&match.ID, &match.GuildID, &match.HomeClubID, &match.AwayClubID,
		&match.ScheduledAt, &match.Status, &match.CreatedAt, &match.UpdatedAt)
	require.NoError(t, err)
	return &match
}

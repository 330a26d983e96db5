package models

import (
	"time"
)

// Player represents a football player. A nil ClubID means the player is a
// free agent (unattached). ClubID is mutated only by the transfer engine.
type Player struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	Name      string    `db:"name"`
	ClubID    *int64    `db:"club_id"`
	Value     int64     `db:"value"`
	Position  string    `db:"position"`
	Age       int       `db:"age"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

package models

import (
	"time"
)

// Club represents a football club scoped to a Discord guild.
// Budget is stored in integer minor units (cents) to avoid floating point error.
type Club struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	Name      string    `db:"name"`
	Budget    int64     `db:"budget"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

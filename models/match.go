package models

import (
	"time"
)

// MatchStatus represents the lifecycle state of a scheduled match
type MatchStatus string

const (
	MatchStatusScheduled    MatchStatus = "scheduled"
	MatchStatusReminderSent MatchStatus = "reminder_sent"
	MatchStatusCompleted    MatchStatus = "completed"
	MatchStatusCancelled    MatchStatus = "cancelled"
)

// Match represents a scheduled match between two clubs in a guild.
// The scheduled → reminder_sent transition is driven only by the reminder
// scheduler; completed/cancelled only by admin action.
type Match struct {
	ID          int64       `db:"id"`
	GuildID     int64       `db:"guild_id"`
	HomeClubID  int64       `db:"home_club_id"`
	AwayClubID  int64       `db:"away_club_id"`
	ScheduledAt time.Time   `db:"scheduled_at"`
	Status      MatchStatus `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

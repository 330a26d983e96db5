package models

import (
	"time"
)

// NotificationJob is one pending reminder delivery for a single recipient.
// Jobs are ephemeral: they live in the dispatch queue and are not persisted.
// Attempt counts only transient failures; rate-limit requeues do not touch it.
type NotificationJob struct {
	MatchID     int64
	RecipientID int64
	Payload     string
	FireAt      time.Time
	Attempt     int
	LastError   string
}

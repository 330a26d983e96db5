package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Notifier is the outbound messaging capability. The queue never interprets
// payload content; it only classifies the returned error.
type Notifier interface {
	Send(ctx context.Context, recipientID int64, payload string) error
}

// RateLimitedError signals the external API asked us to back off. It is
// throttling, not a failure: requeued jobs keep their attempt count.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// PermanentError signals the recipient is unreachable (e.g. blocked DMs).
// The job fails immediately with no retry.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent delivery failure: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsRateLimited extracts a rate-limit signal from a send error
func IsRateLimited(err error) (time.Duration, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}

// IsPermanent reports whether a send error is not worth retrying
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

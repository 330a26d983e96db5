package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footy/models"
	"footy/repository/testutil"
)

func TestMatchRepository_DueForReminder(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewMatchRepository(testDB.DB)
	home := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	away := testutil.CreateTestClub(t, testDB.DB, 100, "Chelsea", 1000)

	now := time.Now()
	lead := 5 * time.Minute

	// Inside the window, outside the window, and already past kickoff
	inside := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, now.Add(4*time.Minute))
	outside := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, now.Add(6*time.Minute))
	overdue := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, now.Add(-10*time.Minute))

	due, err := repo.DueForReminder(ctx, now, lead)
	require.NoError(t, err)
	require.Len(t, due, 2)

	// Earliest kickoff first
	assert.Equal(t, overdue.ID, due[0].ID)
	assert.Equal(t, inside.ID, due[1].ID)
	for _, m := range due {
		assert.NotEqual(t, outside.ID, m.ID)
	}

	// The scan is a pure read: asking again yields the same matches
	again, err := repo.DueForReminder(ctx, now, lead)
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestMatchRepository_DueForReminder_SkipsNonScheduled(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewMatchRepository(testDB.DB)
	home := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	away := testutil.CreateTestClub(t, testDB.DB, 100, "Chelsea", 1000)

	now := time.Now()
	cancelled := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, now.Add(time.Minute))
	require.NoError(t, repo.UpdateStatus(ctx, cancelled.ID, models.MatchStatusCancelled))

	due, err := repo.DueForReminder(ctx, now, 5*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestMatchRepository_ClaimForReminder(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewMatchRepository(testDB.DB)
	home := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	away := testutil.CreateTestClub(t, testDB.DB, 100, "Chelsea", 1000)
	match := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, time.Now().Add(time.Minute))

	claimed, err := repo.ClaimForReminder(ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claim finds the match already transitioned
	claimed, err = repo.ClaimForReminder(ctx, match.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	updated, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusReminderSent, updated.Status)
}

func TestMatchRepository_ClaimForReminder_ExactlyOneWinner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewMatchRepository(testDB.DB)
	home := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	away := testutil.CreateTestClub(t, testDB.DB, 100, "Chelsea", 1000)
	match := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, time.Now().Add(time.Minute))

	const racers = 10
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	errs := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimForReminder(ctx, match.ID)
			if err != nil {
				errs <- err
				return
			}
			if claimed {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), wins)
}

func TestMatchRepository_ClaimForReminder_CancelledMatch(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewMatchRepository(testDB.DB)
	home := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	away := testutil.CreateTestClub(t, testDB.DB, 100, "Chelsea", 1000)
	match := testutil.CreateTestMatch(t, testDB.DB, 100, home.ID, away.ID, time.Now().Add(time.Minute))

	require.NoError(t, repo.UpdateStatus(ctx, match.ID, models.MatchStatusCancelled))

	claimed, err := repo.ClaimForReminder(ctx, match.ID)
	require.NoError(t, err)
	assert.False(t, claimed)
}

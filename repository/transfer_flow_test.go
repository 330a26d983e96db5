package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footy/events"
	"footy/repository/testutil"
	"footy/service"
)

// Full transfer flow against a real database: two clubs trade a player and
// the money, attachment and audit log all move in one transaction.
func TestTransferFlow(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	clubA := testutil.CreateTestClub(t, testDB.DB, 100, "Club A", 1000)
	clubB := testutil.CreateTestClub(t, testDB.DB, 100, "Club B", 500)
	player := testutil.CreateTestPlayer(t, testDB.DB, 100, "Kane", &clubA.ID, 5000)

	uowFactory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	transfers := service.NewTransferService(uowFactory)

	// Club B signs the player for 300
	result, err := transfers.Transfer(ctx, player.ID, clubB.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), result.FromBudget)
	assert.Equal(t, int64(200), result.ToBudget)

	clubRepo := NewClubRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	transferRepo := NewTransferRepository(testDB.DB)

	a, err := clubRepo.GetByID(ctx, clubA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), a.Budget)

	b, err := clubRepo.GetByID(ctx, clubB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), b.Budget)

	moved, err := playerRepo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ClubID)
	assert.Equal(t, clubB.ID, *moved.ClubID)

	history, err := transferRepo.GetByGuild(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, player.ID, history[0].PlayerID)
	require.NotNil(t, history[0].FromClubID)
	assert.Equal(t, clubA.ID, *history[0].FromClubID)
	assert.Equal(t, clubB.ID, history[0].ToClubID)
	assert.Equal(t, int64(300), history[0].Fee)
}

// A transfer the buyer cannot afford fails and leaves every row untouched
func TestTransferFlow_InsufficientFundsRollsBack(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	clubA := testutil.CreateTestClub(t, testDB.DB, 100, "Club A", 1000)
	clubB := testutil.CreateTestClub(t, testDB.DB, 100, "Club B", 500)
	player := testutil.CreateTestPlayer(t, testDB.DB, 100, "Kane", &clubA.ID, 5000)

	uowFactory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	transfers := service.NewTransferService(uowFactory)

	result, err := transfers.Transfer(ctx, player.ID, clubB.ID, 1000)
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	assert.Nil(t, result)

	clubRepo := NewClubRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	transferRepo := NewTransferRepository(testDB.DB)

	a, err := clubRepo.GetByID(ctx, clubA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), a.Budget)

	b, err := clubRepo.GetByID(ctx, clubB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), b.Budget)

	unmoved, err := playerRepo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	require.NotNil(t, unmoved.ClubID)
	assert.Equal(t, clubA.ID, *unmoved.ClubID)

	history, err := transferRepo.GetByGuild(ctx, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// Two transfers of the same player racing each other serialize on the player
// row lock: the winner moves the player, the loser observes the committed club
// reference and is rejected, and no money is double-moved.
func TestTransferFlow_ConcurrentSamePlayer(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	clubA := testutil.CreateTestClub(t, testDB.DB, 100, "Club A", 1000)
	clubB := testutil.CreateTestClub(t, testDB.DB, 100, "Club B", 500)
	player := testutil.CreateTestPlayer(t, testDB.DB, 100, "Kane", &clubA.ID, 5000)

	uowFactory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	transfers := service.NewTransferService(uowFactory)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := transfers.Transfer(ctx, player.ID, clubB.ID, 100)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrInvalidTransfer):
			rejected++
		default:
			t.Fatalf("unexpected transfer error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	clubRepo := NewClubRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	transferRepo := NewTransferRepository(testDB.DB)

	// The fee moved exactly once
	a, err := clubRepo.GetByID(ctx, clubA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), a.Budget)

	b, err := clubRepo.GetByID(ctx, clubB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), b.Budget)

	moved, err := playerRepo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ClubID)
	assert.Equal(t, clubB.ID, *moved.ClubID)

	history, err := transferRepo.GetByGuild(ctx, 100, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// Free agents can be signed: no source club, only the destination pays
func TestTransferFlow_FreeAgent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	clubB := testutil.CreateTestClub(t, testDB.DB, 100, "Club B", 500)
	player := testutil.CreateTestPlayer(t, testDB.DB, 100, "Bosman", nil, 1000)

	uowFactory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	transfers := service.NewTransferService(uowFactory)

	result, err := transfers.Transfer(ctx, player.ID, clubB.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(300), result.ToBudget)
	assert.Nil(t, result.Transfer.FromClubID)

	clubRepo := NewClubRepository(testDB.DB)
	b, err := clubRepo.GetByID(ctx, clubB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), b.Budget)
}

// Deleting a club frees its players inside the same transaction
func TestClubDeletionFreesPlayers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := testutil.CreateTestClub(t, testDB.DB, 100, "Doomed FC", 1000)
	p1 := testutil.CreateTestPlayer(t, testDB.DB, 100, "One", &club.ID, 100)
	p2 := testutil.CreateTestPlayer(t, testDB.DB, 100, "Two", &club.ID, 200)

	uowFactory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	clubs := service.NewClubService(uowFactory)

	require.NoError(t, clubs.DeleteClub(ctx, club.ID))

	playerRepo := NewPlayerRepository(testDB.DB)
	for _, id := range []int64{p1.ID, p2.ID} {
		p, err := playerRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p.ClubID)
	}

	clubRepo := NewClubRepository(testDB.DB)
	gone, err := clubRepo.GetByID(ctx, club.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footy/repository/testutil"
)

func TestPlayerRepository_GetByGuildOrderedByValue(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewPlayerRepository(testDB.DB)
	club := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)

	testutil.CreateTestPlayer(t, testDB.DB, 100, "Cheap", &club.ID, 100)
	testutil.CreateTestPlayer(t, testDB.DB, 100, "Expensive", &club.ID, 9000)
	testutil.CreateTestPlayer(t, testDB.DB, 100, "Mid", nil, 1000)
	testutil.CreateTestPlayer(t, testDB.DB, 200, "Other Guild", nil, 99999)

	players, err := repo.GetByGuildOrderedByValue(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "Expensive", players[0].Name)
	assert.Equal(t, "Mid", players[1].Name)
	assert.Equal(t, "Cheap", players[2].Name)
}

func TestPlayerRepository_SetClubAndRelease(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewPlayerRepository(testDB.DB)
	club := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	player := testutil.CreateTestPlayer(t, testDB.DB, 100, "Kane", nil, 5000)

	require.NoError(t, repo.SetClub(ctx, player.ID, &club.ID))

	attached, err := repo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	require.NotNil(t, attached.ClubID)
	assert.Equal(t, club.ID, *attached.ClubID)

	require.NoError(t, repo.SetClub(ctx, player.ID, nil))

	freed, err := repo.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Nil(t, freed.ClubID)
}

func TestPlayerRepository_ReleaseByClub(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewPlayerRepository(testDB.DB)
	club := testutil.CreateTestClub(t, testDB.DB, 100, "Arsenal", 1000)
	other := testutil.CreateTestClub(t, testDB.DB, 100, "Chelsea", 1000)

	testutil.CreateTestPlayer(t, testDB.DB, 100, "One", &club.ID, 100)
	testutil.CreateTestPlayer(t, testDB.DB, 100, "Two", &club.ID, 200)
	keeper := testutil.CreateTestPlayer(t, testDB.DB, 100, "Keeper", &other.ID, 300)

	released, err := repo.ReleaseByClub(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), released)

	// The other club's player is untouched
	unaffected, err := repo.GetByID(ctx, keeper.ID)
	require.NoError(t, err)
	require.NotNil(t, unaffected.ClubID)
	assert.Equal(t, other.ID, *unaffected.ClubID)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"footy/events"
	"footy/models"
)

func newTransferFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockClubRepository, *MockPlayerRepository, *MockTransferRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockClubRepo := new(MockClubRepository)
	mockPlayerRepo := new(MockPlayerRepository)
	mockTransferRepo := new(MockTransferRepository)

	mockUoW.SetRepositories(mockClubRepo, mockPlayerRepo, mockTransferRepo, new(MockMatchRepository))
	return mockFactory, mockUoW, mockClubRepo, mockPlayerRepo, mockTransferRepo
}

func TestTransferService_Transfer_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClubRepo, mockPlayerRepo, mockTransferRepo := newTransferFixture()

	service := NewTransferService(mockFactory)

	sourceID := int64(1)
	player := &models.Player{ID: 10, GuildID: 100, Name: "Kane", ClubID: &sourceID, Value: 5000}
	source := &models.Club{ID: 1, GuildID: 100, Name: "Arsenal", Budget: 1000}
	dest := &models.Club{ID: 2, GuildID: 100, Name: "Chelsea", Budget: 500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(player, nil)
	mockClubRepo.On("GetByID", ctx, int64(2)).Return(dest, nil)
	mockClubRepo.On("GetByID", ctx, int64(1)).Return(source, nil)

	// Destination pays the fee, source receives it
	mockClubRepo.On("DeductBudget", ctx, int64(2), int64(300)).Return(nil)
	mockClubRepo.On("AddBudget", ctx, int64(1), int64(300)).Return(nil)
	mockPlayerRepo.On("SetClub", ctx, int64(10), &dest.ID).Return(nil)

	mockTransferRepo.On("Create", ctx, mock.MatchedBy(func(tr *models.Transfer) bool {
		return tr.GuildID == 100 &&
			tr.PlayerID == 10 &&
			tr.FromClubID != nil && *tr.FromClubID == 1 &&
			tr.ToClubID == 2 &&
			tr.Fee == 300
	})).Return(nil)

	result, err := service.Transfer(ctx, 10, 2, 300)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1300), result.FromBudget)
	assert.Equal(t, int64(200), result.ToBudget)
	assert.Equal(t, "Kane", result.PlayerName)

	// The transfer event is published inside the transaction
	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	event := published[0].(events.TransferCompletedEvent)
	assert.Equal(t, int64(10), event.PlayerID)
	assert.Equal(t, int64(2), event.ToClubID)
	assert.Equal(t, int64(300), event.Fee)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockClubRepo.AssertExpectations(t)
	mockPlayerRepo.AssertExpectations(t)
	mockTransferRepo.AssertExpectations(t)
}

func TestTransferService_Transfer_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClubRepo, mockPlayerRepo, _ := newTransferFixture()

	service := NewTransferService(mockFactory)

	sourceID := int64(1)
	player := &models.Player{ID: 10, GuildID: 100, Name: "Kane", ClubID: &sourceID}
	source := &models.Club{ID: 1, GuildID: 100, Name: "Arsenal", Budget: 1000}
	dest := &models.Club{ID: 2, GuildID: 100, Name: "Chelsea", Budget: 200}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(player, nil)
	mockClubRepo.On("GetByID", ctx, int64(2)).Return(dest, nil)
	mockClubRepo.On("GetByID", ctx, int64(1)).Return(source, nil)

	result, err := service.Transfer(ctx, 10, 2, 1000)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, result)
	assert.Empty(t, mockUoW.PublishedEvents())

	// No budget was touched and nothing was committed
	mockClubRepo.AssertNotCalled(t, "DeductBudget", mock.Anything, mock.Anything, mock.Anything)
	mockClubRepo.AssertNotCalled(t, "AddBudget", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestTransferService_Transfer_SameClub(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockPlayerRepo, _ := newTransferFixture()

	service := NewTransferService(mockFactory)

	clubID := int64(2)
	player := &models.Player{ID: 10, GuildID: 100, Name: "Kane", ClubID: &clubID}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(player, nil)

	result, err := service.Transfer(ctx, 10, 2, 300)

	assert.ErrorIs(t, err, ErrInvalidTransfer)
	assert.Nil(t, result)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestTransferService_Transfer_NegativeFee(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _, _ := newTransferFixture()

	service := NewTransferService(mockFactory)

	result, err := service.Transfer(ctx, 10, 2, -1)

	assert.ErrorIs(t, err, ErrInvalidTransfer)
	assert.Nil(t, result)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestTransferService_Transfer_PlayerNotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockPlayerRepo, _ := newTransferFixture()

	service := NewTransferService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByIDForUpdate", ctx, int64(99)).Return(nil, nil)

	result, err := service.Transfer(ctx, 99, 2, 300)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, result)
}

func TestTransferService_Transfer_FreeAgentSigning(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClubRepo, mockPlayerRepo, mockTransferRepo := newTransferFixture()

	service := NewTransferService(mockFactory)

	player := &models.Player{ID: 10, GuildID: 100, Name: "Bosman", ClubID: nil}
	dest := &models.Club{ID: 2, GuildID: 100, Name: "Chelsea", Budget: 500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(player, nil)
	mockClubRepo.On("GetByID", ctx, int64(2)).Return(dest, nil)

	// Only the destination is debited; there is no source to credit
	mockClubRepo.On("DeductBudget", ctx, int64(2), int64(100)).Return(nil)
	mockPlayerRepo.On("SetClub", ctx, int64(10), &dest.ID).Return(nil)

	mockTransferRepo.On("Create", ctx, mock.MatchedBy(func(tr *models.Transfer) bool {
		return tr.FromClubID == nil && tr.ToClubID == 2 && tr.Fee == 100
	})).Return(nil)

	result, err := service.Transfer(ctx, 10, 2, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(400), result.ToBudget)
	assert.Equal(t, int64(0), result.FromBudget)
	mockClubRepo.AssertNotCalled(t, "AddBudget", mock.Anything, mock.Anything, mock.Anything)
}

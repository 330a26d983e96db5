package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"footy/events"
	"footy/models"
)

// MockClubRepository is a mock implementation of ClubRepository
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.Club, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) Create(ctx context.Context, guildID int64, name string, budget int64) (*models.Club, error) {
	args := m.Called(ctx, guildID, name, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) UpdateBudget(ctx context.Context, id int64, budget int64) error {
	args := m.Called(ctx, id, budget)
	return args.Error(0)
}

func (m *MockClubRepository) AddBudget(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockClubRepository) DeductBudget(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockClubRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClubRepository) GetByGuildOrderedByBudget(ctx context.Context, guildID int64, limit int) ([]*models.Club, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Club), args.Error(1)
}

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.Player, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) SetClub(ctx context.Context, playerID int64, clubID *int64) error {
	args := m.Called(ctx, playerID, clubID)
	return args.Error(0)
}

func (m *MockPlayerRepository) ReleaseByClub(ctx context.Context, clubID int64) (int64, error) {
	args := m.Called(ctx, clubID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlayerRepository) GetByClub(ctx context.Context, clubID int64) ([]*models.Player, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByGuildOrderedByValue(ctx context.Context, guildID int64, limit int) ([]*models.Player, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Transfer, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transfer), args.Error(1)
}

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) DueForReminder(ctx context.Context, now time.Time, lead time.Duration) ([]*models.Match, error) {
	args := m.Called(ctx, now, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) ClaimForReminder(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepository) UpdateStatus(ctx context.Context, id int64, status models.MatchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMatchRepository) GetUpcoming(ctx context.Context, guildID int64, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

// RecordingEventPublisher captures published events for assertions
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	clubRepo     ClubRepository
	playerRepo   PlayerRepository
	transferRepo TransferRepository
	matchRepo    MatchRepository
	publisher    *RecordingEventPublisher
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(club ClubRepository, player PlayerRepository, transfer TransferRepository, match MatchRepository) {
	m.clubRepo = club
	m.playerRepo = player
	m.transferRepo = transfer
	m.matchRepo = match
	m.publisher = &RecordingEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ClubRepository() ClubRepository {
	return m.clubRepo
}

func (m *MockUnitOfWork) PlayerRepository() PlayerRepository {
	return m.playerRepo
}

func (m *MockUnitOfWork) TransferRepository() TransferRepository {
	return m.transferRepo
}

func (m *MockUnitOfWork) MatchRepository() MatchRepository {
	return m.matchRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.publisher.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

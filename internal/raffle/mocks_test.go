package raffle

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// MockRepository implements repository.Raffle. RunInTx drives the configured
// MockTx through repository.WithRetry, the way real stores do.
type MockRepository struct {
	mock.Mock
	retry repository.RetryPolicy
}

func (m *MockRepository) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RafflePool).Clone(), args.Error(1)
}

func (m *MockRepository) CreatePoolIfAbsent(ctx context.Context, pool *domain.RafflePool) (bool, error) {
	args := m.Called(ctx, pool)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SetAdminSecret(ctx context.Context, secret string, now time.Time) error {
	args := m.Called(ctx, secret, now)
	return args.Error(0)
}

func (m *MockRepository) CreateParticipant(ctx context.Context, participant *domain.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockRepository) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant).Clone(), args.Error(1)
}

func (m *MockRepository) FindParticipantByToken(ctx context.Context, token string) (*domain.Participant, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant).Clone(), args.Error(1)
}

func (m *MockRepository) FindParticipantByName(ctx context.Context, name string) (*domain.Participant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant).Clone(), args.Error(1)
}

func (m *MockRepository) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *MockRepository) CountParticipants(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) MarkJoined(ctx context.Context, id string, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockRepository) ListAssignedParticipantIDs(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) ClearAssignments(ctx context.Context, ids []string, now time.Time) (int64, error) {
	args := m.Called(ctx, ids, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return args.Error(1)
	}
	tx := args.Get(0).(repository.RaffleTx)
	return repository.WithRetry(ctx, m.retry, func(ctx context.Context) error {
		return fn(ctx, tx)
	})
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Close() {
	m.Called()
}

// MockTx implements repository.RaffleTx. Reads return copies so that a retried
// closure starts from the configured snapshot again.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RafflePool).Clone(), args.Error(1)
}

func (m *MockTx) UpdatePool(ctx context.Context, pool *domain.RafflePool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockTx) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant).Clone(), args.Error(1)
}

func (m *MockTx) UpdateParticipant(ctx context.Context, participant *domain.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockTx) DeleteParticipant(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTx) CountParticipants(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) CountAssigned(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// MockRaffleService mocks raffle.Service
type MockRaffleService struct {
	mock.Mock
}

func (m *MockRaffleService) Initialize(ctx context.Context, adminSecret string) (bool, error) {
	args := m.Called(ctx, adminSecret)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaffleService) Start(ctx context.Context) (*domain.StartResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StartResult), args.Error(1)
}

func (m *MockRaffleService) Reset(ctx context.Context) (*domain.ResetResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResetResult), args.Error(1)
}

func (m *MockRaffleService) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RafflePool), args.Error(1)
}

func (m *MockRaffleService) AuthenticateAdmin(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRaffleService) SetAdminSecret(ctx context.Context, secret string) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockRaffleService) Assign(ctx context.Context, participantID string) (int, error) {
	args := m.Called(ctx, participantID)
	return args.Int(0), args.Error(1)
}

func (m *MockRaffleService) Draw(ctx context.Context, token string) (*domain.DrawResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

func (m *MockRaffleService) RegisterParticipant(ctx context.Context, displayName string) (*domain.Registration, error) {
	args := m.Called(ctx, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRaffleService) Login(ctx context.Context, token string) (*domain.Participant, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockRaffleService) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockRaffleService) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}

func (m *MockRaffleService) DeleteParticipant(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProjector mocks Projector
type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Leaderboard), args.Error(1)
}

func (m *MockProjector) Status(ctx context.Context) (domain.StatusSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StatusSnapshot), args.Error(1)
}

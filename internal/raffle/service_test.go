package raffle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

func activePool(ranks ...int) *domain.RafflePool {
	pool := domain.NewRafflePool(testAdminSecret, testEpoch)
	pool.Status = domain.RaffleStatusActive
	pool.AvailableRanks = ranks
	return pool
}

func newMockService(repo *MockRepository) Service {
	return NewService(repo, event.NewMemoryBus(), &counterGenerator{}, Config{
		OperationTimeout: time.Second,
		Now:              func() time.Time { return testEpoch },
	})
}

func TestAssign_ConflictsExhaustRetries(t *testing.T) {
	repo := &MockRepository{retry: repository.RetryPolicy{MaxAttempts: 3}}
	tx := &MockTx{}
	repo.On("RunInTx", mock.Anything).Return(tx, nil)

	tx.On("GetPool", mock.Anything).Return(activePool(4, 7, 9), nil)
	tx.On("GetParticipant", mock.Anything, "p1").Return(&domain.Participant{ID: "p1", DisplayName: "Ada"}, nil)
	tx.On("UpdateParticipant", mock.Anything, mock.Anything).Return(nil)
	tx.On("UpdatePool", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, err := newMockService(repo).Assign(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransientFailure)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// every attempt re-read from scratch and popped the same rank
	tx.AssertNumberOfCalls(t, "GetPool", 3)
	tx.AssertNumberOfCalls(t, "UpdatePool", 3)
	for _, call := range tx.Calls {
		if call.Method == "UpdatePool" {
			pool := call.Arguments.Get(1).(*domain.RafflePool)
			assert.Equal(t, []int{4, 7}, pool.AvailableRanks)
		}
	}
}

func TestAssign_RecoversAfterOneConflict(t *testing.T) {
	repo := &MockRepository{retry: repository.RetryPolicy{MaxAttempts: 3}}
	tx := &MockTx{}
	repo.On("RunInTx", mock.Anything).Return(tx, nil)

	tx.On("GetPool", mock.Anything).Return(activePool(4, 7, 9), nil)
	tx.On("GetParticipant", mock.Anything, "p1").Return(&domain.Participant{ID: "p1"}, nil)
	tx.On("UpdateParticipant", mock.Anything, mock.Anything).Return(domain.ErrConflict).Once()
	tx.On("UpdateParticipant", mock.Anything, mock.Anything).Return(nil)
	tx.On("UpdatePool", mock.Anything, mock.Anything).Return(nil)

	rank, err := newMockService(repo).Assign(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 9, rank)
	tx.AssertNumberOfCalls(t, "UpdateParticipant", 2)
	tx.AssertNumberOfCalls(t, "UpdatePool", 1)
}

func TestAssign_ValidationFailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name        string
		pool        *domain.RafflePool
		participant *domain.Participant
		wantErr     error
	}{
		{
			name:        "waiting pool",
			pool:        domain.NewRafflePool(testAdminSecret, testEpoch),
			participant: &domain.Participant{ID: "p1"},
			wantErr:     domain.ErrRaffleNotActive,
		},
		{
			name:        "flag without rank",
			pool:        activePool(1),
			participant: &domain.Participant{ID: "p1", HasParticipated: true},
			wantErr:     domain.ErrAlreadyParticipated,
		},
		{
			name:        "empty pool",
			pool:        activePool(),
			participant: &domain.Participant{ID: "p1"},
			wantErr:     domain.ErrPoolExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{retry: repository.RetryPolicy{MaxAttempts: 3}}
			tx := &MockTx{}
			repo.On("RunInTx", mock.Anything).Return(tx, nil)
			tx.On("GetPool", mock.Anything).Return(tt.pool, nil)
			tx.On("GetParticipant", mock.Anything, "p1").Return(tt.participant, nil)

			_, err := newMockService(repo).Assign(context.Background(), "p1")
			assert.ErrorIs(t, err, tt.wantErr)
			tx.AssertNotCalled(t, "UpdateParticipant", mock.Anything, mock.Anything)
			tx.AssertNotCalled(t, "UpdatePool", mock.Anything, mock.Anything)
		})
	}
}

func TestReset_StoreFailureStopsBatches(t *testing.T) {
	repo := &MockRepository{retry: repository.RetryPolicy{MaxAttempts: 1}}
	tx := &MockTx{}
	repo.On("RunInTx", mock.Anything).Return(tx, nil)
	tx.On("GetPool", mock.Anything).Return(activePool(3), nil)
	tx.On("UpdatePool", mock.Anything, mock.MatchedBy(func(p *domain.RafflePool) bool {
		return p.Status == domain.RaffleStatusWaiting && len(p.AvailableRanks) == 0
	})).Return(nil)

	dbErr := errors.New("disk full")
	repo.On("ListAssignedParticipantIDs", mock.Anything, DefaultResetBatchSize).Return([]string{"a", "b"}, nil)
	repo.On("ClearAssignments", mock.Anything, []string{"a", "b"}, testEpoch).Return(int64(0), dbErr)

	_, err := newMockService(repo).Reset(context.Background())
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), ErrContextFailedToClearBatch)
	repo.AssertNumberOfCalls(t, "ListAssignedParticipantIDs", 1)
}

func TestAuthenticateAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	// no pool yet
	assert.ErrorIs(t, env.svc.AuthenticateAdmin(ctx, testAdminSecret), domain.ErrPoolNotFound)

	env.initialize(t)
	assert.NoError(t, env.svc.AuthenticateAdmin(ctx, testAdminSecret))
	assert.NoError(t, env.svc.AuthenticateAdmin(ctx, "  "+testAdminSecret+"\t"))
	assert.ErrorIs(t, env.svc.AuthenticateAdmin(ctx, "LETMEIN"), domain.ErrUnauthorized)
	assert.ErrorIs(t, env.svc.AuthenticateAdmin(ctx, ""), domain.ErrUnauthorized)

	require.NoError(t, env.svc.SetAdminSecret(ctx, " rotated "))
	assert.ErrorIs(t, env.svc.AuthenticateAdmin(ctx, testAdminSecret), domain.ErrUnauthorized)
	assert.NoError(t, env.svc.AuthenticateAdmin(ctx, "rotated"))

	assert.ErrorIs(t, env.svc.SetAdminSecret(ctx, " "), domain.ErrInvalidInput)
}

func TestAuthenticateAdmin_EmptyStoredSecret(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetPool", mock.Anything).Return(domain.NewRafflePool("", testEpoch), nil)

	err := newMockService(repo).AuthenticateAdmin(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCryptoShuffle(t *testing.T) {
	ranks := sequentialRanks(100)
	require.NoError(t, CryptoShuffle(ranks))
	assert.ElementsMatch(t, sequentialRanks(100), ranks)

	assert.NoError(t, CryptoShuffle(nil))
	one := []int{1}
	require.NoError(t, CryptoShuffle(one))
	assert.Equal(t, []int{1}, one)
}

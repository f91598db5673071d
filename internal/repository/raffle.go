package repository

import (
	"context"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// TxFunc is the body of a transaction. It may run more than once: implementations
// must keep all side effects inside tx and reset any captured results on entry.
type TxFunc func(ctx context.Context, tx RaffleTx) error

// Raffle defines data access for the pool singleton and the participant collection
type Raffle interface {
	// Pool
	GetPool(ctx context.Context) (*domain.RafflePool, error)
	CreatePoolIfAbsent(ctx context.Context, pool *domain.RafflePool) (bool, error)
	SetAdminSecret(ctx context.Context, secret string, now time.Time) error

	// Participants
	CreateParticipant(ctx context.Context, participant *domain.Participant) error
	GetParticipant(ctx context.Context, id string) (*domain.Participant, error)
	FindParticipantByToken(ctx context.Context, token string) (*domain.Participant, error)
	FindParticipantByName(ctx context.Context, name string) (*domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	CountParticipants(ctx context.Context) (int, error)
	MarkJoined(ctx context.Context, id string, now time.Time) error

	// Reset batches. Each ClearAssignments call is atomic on its own.
	ListAssignedParticipantIDs(ctx context.Context, limit int) ([]string, error)
	ClearAssignments(ctx context.Context, ids []string, now time.Time) (int64, error)

	// RunInTx executes fn with snapshot reads and compare-and-swap writes,
	// re-running it from scratch when a concurrent commit invalidates the snapshot.
	RunInTx(ctx context.Context, fn TxFunc) error

	Ping(ctx context.Context) error
	Close()
}

// RaffleTx is the view of the store inside RunInTx.
// Update methods fail with domain.ErrConflict when the record's version moved.
type RaffleTx interface {
	GetPool(ctx context.Context) (*domain.RafflePool, error)
	UpdatePool(ctx context.Context, pool *domain.RafflePool) error

	GetParticipant(ctx context.Context, id string) (*domain.Participant, error)
	UpdateParticipant(ctx context.Context, participant *domain.Participant) error
	DeleteParticipant(ctx context.Context, id string) error

	CountParticipants(ctx context.Context) (int, error)
	CountAssigned(ctx context.Context) (int, error)
}

// ChangeNotifier is implemented by stores that can push a signal after committed writes.
type ChangeNotifier interface {
	// Changes returns a channel that receives after any committed write.
	// Signals coalesce; the channel is closed when ctx is done.
	Changes(ctx context.Context) (<-chan struct{}, error)
}

package domain

import (
	"slices"
	"time"
)

// RaffleStatus is the lifecycle state of the raffle pool
type RaffleStatus string

const (
	RaffleStatusWaiting RaffleStatus = "waiting"
	RaffleStatusActive  RaffleStatus = "active"
	// RaffleStatusCompleted is never stored; it is reported for an active pool with no ranks left.
	RaffleStatusCompleted RaffleStatus = "completed"
)

// RafflePoolID is the key of the singleton pool record
const RafflePoolID = 1

// RafflePool is the singleton record holding lifecycle status and the ranks not yet handed out
type RafflePool struct {
	Status         RaffleStatus `json:"status"`
	AvailableRanks []int        `json:"available_ranks"`
	AdminSecret    string       `json:"-"`
	Version        int64        `json:"version"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewRafflePool returns a waiting pool with no ranks
func NewRafflePool(adminSecret string, now time.Time) *RafflePool {
	return &RafflePool{
		Status:         RaffleStatusWaiting,
		AvailableRanks: []int{},
		AdminSecret:    adminSecret,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EffectiveStatus reports Completed for an active pool that has been drained
func (p *RafflePool) EffectiveStatus() RaffleStatus {
	if p.Status == RaffleStatusActive && len(p.AvailableRanks) == 0 {
		return RaffleStatusCompleted
	}
	return p.Status
}

// IsActive reports whether the stored status permits draws
func (p *RafflePool) IsActive() bool {
	return p.Status == RaffleStatusActive
}

// PoolSize is the number of ranks still available
func (p *RafflePool) PoolSize() int {
	return len(p.AvailableRanks)
}

// PopRank removes the last available rank and returns it.
// The second return value is false when the pool is empty.
func (p *RafflePool) PopRank() (int, bool) {
	n := len(p.AvailableRanks)
	if n == 0 {
		return 0, false
	}
	rank := p.AvailableRanks[n-1]
	p.AvailableRanks = slices.Clone(p.AvailableRanks[:n-1])
	return rank, true
}

// Clone returns a deep copy so stores never hand out shared slices
func (p *RafflePool) Clone() *RafflePool {
	if p == nil {
		return nil
	}
	c := *p
	c.AvailableRanks = slices.Clone(p.AvailableRanks)
	if c.AvailableRanks == nil {
		c.AvailableRanks = []int{}
	}
	return &c
}

// StartResult describes a freshly started raffle
type StartResult struct {
	PoolSize int `json:"pool_size"`
}

// ResetResult describes how a reset progressed
type ResetResult struct {
	Batches             int   `json:"batches"`
	ParticipantsCleared int64 `json:"participants_cleared"`
}

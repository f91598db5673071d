// Package projection derives the read models clients watch: the ranked
// leaderboard and the waiting-room status.
package projection

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// BuildLeaderboard orders participants holding a rank by rank ascending, then
// the rest by display name using collator, ties broken by id.
// A nil collator falls back to byte order.
func BuildLeaderboard(participants []domain.Participant, collator *collate.Collator, now time.Time) domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		entry := domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			HasJoined:     p.HasJoined,
		}
		if p.AssignedRank != nil {
			r := *p.AssignedRank
			entry.Rank = &r
		}
		entries = append(entries, entry)
	}

	compareNames := func(a, b string) int { return cmp.Compare(a, b) }
	if collator != nil {
		compareNames = collator.CompareString
	}

	slices.SortFunc(entries, func(a, b domain.LeaderboardEntry) int {
		switch {
		case a.Rank != nil && b.Rank != nil:
			if c := cmp.Compare(*a.Rank, *b.Rank); c != 0 {
				return c
			}
		case a.Rank != nil:
			return -1
		case b.Rank != nil:
			return 1
		default:
			if c := compareNames(a.DisplayName, b.DisplayName); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})

	return domain.Leaderboard{Entries: entries, GeneratedAt: now}
}

// BuildStatus summarizes the pool for the waiting room. A missing pool reads as
// waiting with nothing to draw.
func BuildStatus(pool *domain.RafflePool, participants []domain.Participant) domain.StatusSnapshot {
	status := domain.StatusSnapshot{
		Status:           domain.RaffleStatusWaiting,
		ParticipantCount: len(participants),
	}
	if pool != nil {
		status.Status = pool.EffectiveStatus()
		status.PoolSize = pool.PoolSize()
	}
	for _, p := range participants {
		if p.HasRank() {
			status.AssignedCount++
		}
	}
	return status
}

// sameLeaderboard compares entries only; the generation time always differs
func sameLeaderboard(a, b domain.Leaderboard) bool {
	return slices.EqualFunc(a.Entries, b.Entries, func(x, y domain.LeaderboardEntry) bool {
		if x.ParticipantID != y.ParticipantID || x.DisplayName != y.DisplayName || x.HasJoined != y.HasJoined {
			return false
		}
		if x.Rank == nil || y.Rank == nil {
			return x.Rank == nil && y.Rank == nil
		}
		return *x.Rank == *y.Rank
	})
}

func sameStatus(a, b domain.StatusSnapshot) bool {
	return a == b
}

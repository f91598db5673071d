package domain

import "time"

// LeaderboardEntry is one row of the public ranking
type LeaderboardEntry struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Rank          *int   `json:"rank"`
	HasJoined     bool   `json:"has_joined"`
}

// Leaderboard lists ranked participants first, by rank, then unranked ones by name
type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"entries"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// StatusSnapshot is the waiting-room view of the raffle
type StatusSnapshot struct {
	Status           RaffleStatus `json:"status"`
	PoolSize         int          `json:"pool_size"`
	ParticipantCount int          `json:"participant_count"`
	AssignedCount    int          `json:"assigned_count"`
}

package domain

import "time"

// Access token alphabet and length handed to participants
const (
	AccessTokenLength   = 4
	AccessTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// MaxDisplayNameLength bounds participant display names, in runes
const MaxDisplayNameLength = 64

// Participant is one registered entrant
type Participant struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	AccessToken     string    `json:"-"`
	AssignedRank    *int      `json:"assigned_rank"`
	HasParticipated bool      `json:"has_participated"`
	HasJoined       bool      `json:"has_joined"`
	Version         int64     `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasRank reports whether the participant already holds a rank or is marked as drawn
func (p *Participant) HasRank() bool {
	return p.HasParticipated || p.AssignedRank != nil
}

// AssignRank binds a rank and the participation flag together
func (p *Participant) AssignRank(rank int, now time.Time) {
	r := rank
	p.AssignedRank = &r
	p.HasParticipated = true
	p.UpdatedAt = now
}

// ClearRank undoes AssignRank
func (p *Participant) ClearRank(now time.Time) {
	p.AssignedRank = nil
	p.HasParticipated = false
	p.UpdatedAt = now
}

// Clone returns a copy that does not share the rank pointer
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	c := *p
	if p.AssignedRank != nil {
		r := *p.AssignedRank
		c.AssignedRank = &r
	}
	return &c
}

// Registration is returned once, when a participant is created; it is the only
// place the access token leaves the service.
type Registration struct {
	Participant *Participant `json:"participant"`
	Token       string       `json:"token"`
}

// DrawResult is the outcome of a successful draw
type DrawResult struct {
	Rank        int          `json:"rank"`
	Participant *Participant `json:"participant"`
}

package sse

// RankAssignedPayload is the SSE payload for a committed draw
type RankAssignedPayload struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Rank          int    `json:"rank"`
	Remaining     int    `json:"remaining"`
}

// ConnectedPayload is the payload of the first event on a stream
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Filters  []string `json:"filters"`
}

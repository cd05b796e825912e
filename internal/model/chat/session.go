package chat

import "time"

// Session captures a transient anonymous support conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	// FallbackTurns counts generic replies given so far; it drives round-robin selection.
	FallbackTurns int `json:"fallbackTurns"`
}

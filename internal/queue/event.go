// Package queue defines the account lifecycle messages exchanged over
// the message broker and the background consumer that processes them.
package queue

// Event types published on the account.events queue.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.login"
)

// AccountEvent is published when an account is created or logs in.  It
// carries enough for downstream consumers to audit or notify without
// querying the primary database.  No secrets ever travel in it.
type AccountEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	Role       int    `json:"role"`
	OccurredAt string `json:"occurred_at"`
}

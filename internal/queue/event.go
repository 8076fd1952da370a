// Package queue defines message payloads exchanged over the message broker.
package queue

// PasswordResetQueue is the durable queue carrying reset-email jobs from
// the API to the mail worker.
const PasswordResetQueue = "password.reset"

// PasswordResetRequestedEvent is published when a user asks for a
// password reset.  It carries everything the mail worker needs to build
// and send the message without querying the primary database.  The
// ResetToken field holds the plaintext secret; it exists only in flight
// and in the resulting email, never in storage.
type PasswordResetRequestedEvent struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	ResetToken  string `json:"reset_token"`
	RequestedAt string `json:"requested_at"`
}

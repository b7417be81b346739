// Package session manages wizard session lifecycle across store
// backends. Sessions are ephemeral: they expire on a TTL and are never
// shared between users.
package session

import (
	"context"
	"errors"

	"recordwizard/internal/wizard"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Factory builds a fresh machine wired with the process-wide
// dependencies (prediction client, catalog, thresholds).
type Factory func() *wizard.Machine

// Store persists wizard sessions.
type Store interface {
	// Create allocates a new session and returns its id.
	Create(ctx context.Context) (string, *wizard.Machine, error)
	// Get loads an existing session.
	Get(ctx context.Context, id string) (*wizard.Machine, error)
	// Save persists the session after a mutating action. In-process
	// stores may treat this as a TTL refresh.
	Save(ctx context.Context, id string, m *wizard.Machine) error
	// Delete discards a session.
	Delete(ctx context.Context, id string) error
}

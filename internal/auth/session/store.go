// Package session tracks issued staff sessions server-side so they expire
// and can be revoked even though the tokens themselves are stateless.
package session

import (
	"context"
	"time"
)

// Store records live sessions with a TTL.
type Store interface {
	Save(ctx context.Context, sessionID string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

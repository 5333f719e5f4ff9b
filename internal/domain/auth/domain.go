package auth

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted session row. The token string itself is the
// primary key: 64 lowercase hex characters, 256 bits of entropy, opaque to
// the client. RevokedAt transitions from nil to a timestamp exactly once and
// is never cleared; ExpiresAt is fixed at creation and never extended.
type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *RefreshToken) Revoked() bool { return t.RevokedAt != nil }

func (t *RefreshToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type HistoryStore interface {
	AppendJSON(ctx context.Context, key string, maxLen int, ttl time.Duration, values ...any) error
	RangeJSON(ctx context.Context, key string) ([]json.RawMessage, error)
}

// Notifier pushes an event to every live connection of a user. It must not
// block.
type Notifier interface {
	Notify(userID uuid.UUID, eventType string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, any) {}

// BaselineForgetter drops cached market baselines of a skill.
type BaselineForgetter interface {
	Forget(ctx context.Context, skillName string)
}

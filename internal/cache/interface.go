package cache

import (
	"context"
	"time"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
)

// ConversationCache caches the recent message window for a pair of user
// keys. Entries are invalidated when a new message lands in the pair's
// conversation and expire on their own otherwise.
type ConversationCache interface {
	Get(ctx context.Context, key string) ([]domain.DirectMessage, error)
	Set(ctx context.Context, key string, messages []domain.DirectMessage, ttl time.Duration) error
	BuildKey(userA, userB string) string
	Invalidate(ctx context.Context, userA, userB string) error
	Close() error
}

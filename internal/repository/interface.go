package repository

import (
	"context"
	"errors"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrFriendshipExists   = errors.New("friendship already exists")
)

// ProfileRepository persists user profiles keyed by user key.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByKey(ctx context.Context, key string) (*domain.Profile, error)
	// SearchByName finds profiles whose name contains q, excluding one key,
	// bounded by limit.
	SearchByName(ctx context.Context, q, excludeKey string, limit int) ([]domain.Profile, error)
}

// FriendshipRepository persists friendship records keyed by an
// order-independent, canonicalized pair of user keys.
type FriendshipRepository interface {
	CreatePending(ctx context.Context, requester, recipient string) (*domain.Friendship, error)
	// Accept flips pending to accepted; only matches a row whose requester
	// is the given requester.
	Accept(ctx context.Context, requester, recipient string) error
	Delete(ctx context.Context, userA, userB string) error
	ListForUser(ctx context.Context, key string) ([]domain.Friendship, error)
}

// MessageRepository is the append-only direct message store.
type MessageRepository interface {
	// Create inserts the message and fills in its assigned ID and timestamp.
	Create(ctx context.Context, msg *domain.DirectMessage) error
	// Conversation returns up to limit most recent messages between two
	// keys, in ascending timestamp order (id as tie-break).
	Conversation(ctx context.Context, userA, userB string, limit int) ([]domain.DirectMessage, error)
}

package service

import (
	"context"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/hub"
)

// PartyService handles party-scoped events for one connection. Malformed or
// unauthorized requests are dropped without a signal to the caller.
type PartyService interface {
	HandleJoinParty(client *hub.Client, partyID string, profile domain.UserProfile)
	HandleStateChange(client *hub.Client, newState string)
	HandleChatMessage(client *hub.Client, payload domain.ChatPayload)
	HandleTyping(client *hub.Client, typing bool)
	// HandleDisconnect tears down the connection's registry binding and
	// party membership. Safe to call when neither exists.
	HandleDisconnect(client *hub.Client)
}

// DirectMessageService handles user-key registration and point-to-point
// messages.
type DirectMessageService interface {
	HandleRegister(ctx context.Context, client *hub.Client, userKey string)
	HandleDirectMessage(ctx context.Context, client *hub.Client, to, body string)
}

// SocialService covers the profile and friendship CRUD surface.
type SocialService interface {
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	SearchProfiles(ctx context.Context, q, excludeKey string, limit int) ([]domain.Profile, error)
	RequestFriend(ctx context.Context, requester, recipient string) (*domain.Friendship, error)
	AcceptFriend(ctx context.Context, requester, recipient string) error
	RemoveFriend(ctx context.Context, userA, userB string) error
	ListFriends(ctx context.Context, key string) ([]domain.Friendship, error)
}

// HistoryService retrieves persisted direct-message history.
type HistoryService interface {
	// Conversation returns up to limit most recent messages between two
	// keys, ascending by timestamp.
	Conversation(ctx context.Context, userA, userB string, limit int) ([]domain.DirectMessage, error)
}

package service

import (
	"context"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/cache"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/hub"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/registry"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/repository"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

type dmService struct {
	hub      *hub.Hub
	registry registry.Registry
	messages repository.MessageRepository
	cache    cache.ConversationCache
}

func NewDirectMessageService(
	h *hub.Hub,
	reg registry.Registry,
	messages repository.MessageRepository,
	convCache cache.ConversationCache,
) DirectMessageService {
	return &dmService{
		hub:      h,
		registry: reg,
		messages: messages,
		cache:    convCache,
	}
}

// HandleRegister binds the connection to userKey for direct-message
// addressing. A key registered from another connection is simply taken over.
func (s *dmService) HandleRegister(ctx context.Context, c *hub.Client, userKey string) {
	if userKey == "" {
		return
	}

	s.registry.Register(userKey, c.ID)
	c.Session.Register(userKey)

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldClientID, c.ID).Str(log.FieldUserKey, userKey).Msg("user registered")
}

// HandleDirectMessage persists the message, then delivers it live: to the
// recipient only while registered and connected, and always back to the
// sender as an echo. A failed persist suppresses delivery entirely; there is
// no retry.
func (s *dmService) HandleDirectMessage(ctx context.Context, c *hub.Client, to, body string) {
	l := log.Ctx(ctx)

	from := c.Session.UserKey()
	if from == "" || to == "" || body == "" {
		l.Debug().Str(log.FieldClientID, c.ID).Msg("incomplete direct message dropped")
		return
	}

	msg := &domain.DirectMessage{
		SenderKey:   from,
		ReceiverKey: to,
		Body:        body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		l.Error().Err(err).
			Str(log.FieldUserKey, from).
			Str("receiver_key", to).
			Msg("failed to persist direct message, not delivered")
		return
	}

	if err := s.cache.Invalidate(ctx, from, to); err != nil {
		l.Warn().Err(err).Msg("failed to invalidate conversation cache")
	}

	out := &domain.NewDirectMessage{
		Type:      domain.MsgTypeNewDirectMessage,
		ID:        msg.ID,
		From:      msg.SenderKey,
		To:        msg.ReceiverKey,
		Body:      msg.Body,
		Timestamp: msg.CreatedAt.UnixMilli(),
	}

	if clientID, ok := s.registry.Lookup(to); ok && clientID != c.ID {
		s.hub.Direct(clientID, out)
	}
	s.hub.Direct(c.ID, out)
}

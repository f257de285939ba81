package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/cache"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/repository"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

// MaxConversationLimit bounds one history page; the cache always holds the
// full window and callers get a slice of it.
const MaxConversationLimit = 100

type historyService struct {
	repo     repository.MessageRepository
	cache    cache.ConversationCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewHistoryService(
	repo repository.MessageRepository,
	convCache cache.ConversationCache,
	cacheTTL time.Duration,
) HistoryService {
	return &historyService{
		repo:     repo,
		cache:    convCache,
		cacheTTL: cacheTTL,
	}
}

func (s *historyService) Conversation(ctx context.Context, userA, userB string, limit int) ([]domain.DirectMessage, error) {
	if limit <= 0 || limit > MaxConversationLimit {
		limit = MaxConversationLimit
	}

	cacheKey := s.cache.BuildKey(userA, userB)

	// Collapse concurrent fetches of the same conversation.
	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		return s.fetchWithCache(ctx, userA, userB, cacheKey)
	})
	if err != nil {
		return nil, err
	}

	messages, ok := result.([]domain.DirectMessage)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (s *historyService) fetchWithCache(ctx context.Context, userA, userB, cacheKey string) ([]domain.DirectMessage, error) {
	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("cache get error")
	}

	messages, err := s.repo.Conversation(ctx, userA, userB, MaxConversationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation from repository: %w", err)
	}

	// Store in cache (async to avoid blocking the response).
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(cacheCtx, cacheKey, messages, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("cache set error")
		}
	}()

	return messages, nil
}

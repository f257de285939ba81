package service

import (
	"context"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/repository"
)

type socialService struct {
	profiles    repository.ProfileRepository
	friendships repository.FriendshipRepository
}

func NewSocialService(
	profiles repository.ProfileRepository,
	friendships repository.FriendshipRepository,
) SocialService {
	return &socialService{
		profiles:    profiles,
		friendships: friendships,
	}
}

func (s *socialService) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	return s.profiles.Upsert(ctx, profile)
}

func (s *socialService) SearchProfiles(ctx context.Context, q, excludeKey string, limit int) ([]domain.Profile, error) {
	return s.profiles.SearchByName(ctx, q, excludeKey, limit)
}

func (s *socialService) RequestFriend(ctx context.Context, requester, recipient string) (*domain.Friendship, error) {
	return s.friendships.CreatePending(ctx, requester, recipient)
}

func (s *socialService) AcceptFriend(ctx context.Context, requester, recipient string) error {
	return s.friendships.Accept(ctx, requester, recipient)
}

func (s *socialService) RemoveFriend(ctx context.Context, userA, userB string) error {
	return s.friendships.Delete(ctx, userA, userB)
}

func (s *socialService) ListFriends(ctx context.Context, key string) ([]domain.Friendship, error) {
	return s.friendships.ListForUser(ctx, key)
}

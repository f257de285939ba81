package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/repository"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/service"
)

type fakeSocialService struct {
	profiles    map[string]*domain.Profile
	friendships map[string]*domain.Friendship
	acceptErr   error
}

func newFakeSocial() *fakeSocialService {
	return &fakeSocialService{
		profiles:    make(map[string]*domain.Profile),
		friendships: make(map[string]*domain.Friendship),
	}
}

func pairKey(a, b string) string {
	low, high := domain.CanonicalPair(a, b)
	return low + ":" + high
}

func (f *fakeSocialService) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	f.profiles[profile.Key] = profile
	return nil
}

func (f *fakeSocialService) SearchProfiles(ctx context.Context, q, excludeKey string, limit int) ([]domain.Profile, error) {
	var out []domain.Profile
	for _, p := range f.profiles {
		if p.Key != excludeKey {
			out = append(out, *p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSocialService) RequestFriend(ctx context.Context, requester, recipient string) (*domain.Friendship, error) {
	key := pairKey(requester, recipient)
	if _, ok := f.friendships[key]; ok {
		return nil, repository.ErrFriendshipExists
	}
	low, high := domain.CanonicalPair(requester, recipient)
	friendship := &domain.Friendship{
		UserLow: low, UserHigh: high, Requester: requester, Status: domain.FriendStatusPending,
	}
	f.friendships[key] = friendship
	return friendship, nil
}

func (f *fakeSocialService) AcceptFriend(ctx context.Context, requester, recipient string) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	friendship, ok := f.friendships[pairKey(requester, recipient)]
	if !ok || friendship.Status != domain.FriendStatusPending {
		return repository.ErrFriendshipNotFound
	}
	friendship.Status = domain.FriendStatusAccepted
	return nil
}

func (f *fakeSocialService) RemoveFriend(ctx context.Context, userA, userB string) error {
	key := pairKey(userA, userB)
	if _, ok := f.friendships[key]; !ok {
		return repository.ErrFriendshipNotFound
	}
	delete(f.friendships, key)
	return nil
}

func (f *fakeSocialService) ListFriends(ctx context.Context, key string) ([]domain.Friendship, error) {
	var out []domain.Friendship
	for _, fr := range f.friendships {
		if fr.UserLow == key || fr.UserHigh == key {
			out = append(out, *fr)
		}
	}
	return out, nil
}

type fakeHistoryService struct {
	messages  []domain.DirectMessage
	lastLimit int
}

func (f *fakeHistoryService) Conversation(ctx context.Context, userA, userB string, limit int) ([]domain.DirectMessage, error) {
	f.lastLimit = limit
	return f.messages, nil
}

func newTestRouter(social *fakeSocialService, history *fakeHistoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHTTPHandler(social, history).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPHandler_UpsertProfile(t *testing.T) {
	req := require.New(t)
	social := newFakeSocial()
	r := newTestRouter(social, &fakeHistoryService{})

	w := doJSON(t, r, http.MethodPut, "/api/v1/profiles/alice", gin.H{
		"name": "Alice", "avatar": "a.png", "avatarColor": "#ff0000",
	})

	req.Equal(http.StatusOK, w.Code)
	req.Contains(social.profiles, "alice")
	req.Equal("Alice", social.profiles["alice"].Name)
}

func TestHTTPHandler_UpsertProfileRequiresName(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(newFakeSocial(), &fakeHistoryService{})

	w := doJSON(t, r, http.MethodPut, "/api/v1/profiles/alice", gin.H{"avatar": "a.png"})
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_SearchRequiresQuery(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(newFakeSocial(), &fakeHistoryService{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/profiles/search", nil)
	req.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/profiles/search?q=ali&limit=banana", nil)
	req.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/profiles/search?q=ali", nil)
	req.Equal(http.StatusOK, w.Code)
}

func TestHTTPHandler_FriendRequestLifecycle(t *testing.T) {
	req := require.New(t)
	social := newFakeSocial()
	r := newTestRouter(social, &fakeHistoryService{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/friends/requests", gin.H{
		"requester": "alice", "recipient": "bob",
	})
	req.Equal(http.StatusCreated, w.Code)

	// Duplicate requests conflict.
	w = doJSON(t, r, http.MethodPost, "/api/v1/friends/requests", gin.H{
		"requester": "bob", "recipient": "alice",
	})
	req.Equal(http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/friends/requests/accept", gin.H{
		"requester": "alice", "recipient": "bob",
	})
	req.Equal(http.StatusOK, w.Code)
	req.Equal(domain.FriendStatusAccepted, social.friendships[pairKey("alice", "bob")].Status)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/friends?user_a=bob&user_b=alice", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Empty(social.friendships)
}

func TestHTTPHandler_SelfFriendRequestIsRejected(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(newFakeSocial(), &fakeHistoryService{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/friends/requests", gin.H{
		"requester": "alice", "recipient": "alice",
	})
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_AcceptUnknownPairIs404(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(newFakeSocial(), &fakeHistoryService{})

	w := doJSON(t, r, http.MethodPut, "/api/v1/friends/requests/accept", gin.H{
		"requester": "alice", "recipient": "bob",
	})
	req.Equal(http.StatusNotFound, w.Code)
}

func TestHTTPHandler_GetConversation(t *testing.T) {
	req := require.New(t)
	history := &fakeHistoryService{messages: []domain.DirectMessage{
		{ID: 1, SenderKey: "alice", ReceiverKey: "bob", Body: "hi"},
	}}
	r := newTestRouter(newFakeSocial(), history)

	w := doJSON(t, r, http.MethodGet, "/api/v1/messages?user_a=alice&user_b=bob", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(defaultHistoryLimit, history.lastLimit)

	var body struct {
		Success bool                   `json:"success"`
		Data    []domain.DirectMessage `json:"data"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.True(body.Success)
	req.Len(body.Data, 1)
	req.Equal("hi", body.Data[0].Body)
}

func TestHTTPHandler_GetConversationValidation(t *testing.T) {
	req := require.New(t)
	history := &fakeHistoryService{}
	r := newTestRouter(newFakeSocial(), history)

	w := doJSON(t, r, http.MethodGet, "/api/v1/messages?user_a=alice", nil)
	req.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/messages?user_a=alice&user_b=bob&limit=-3", nil)
	req.Equal(http.StatusBadRequest, w.Code)

	// Oversized limits are clamped, not rejected.
	w = doJSON(t, r, http.MethodGet, "/api/v1/messages?user_a=alice&user_b=bob&limit=9999", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(service.MaxConversationLimit, history.lastLimit)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/cache"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/config"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/hub"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/registry"
)

// fakeMessageRepo is an in-memory MessageRepository with error injection.
type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []domain.DirectMessage
	createErr error
	calls     int
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *domain.DirectMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	msg.ID = uint(len(f.messages) + 1)
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) Conversation(ctx context.Context, userA, userB string, limit int) ([]domain.DirectMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out []domain.DirectMessage
	for _, m := range f.messages {
		if (m.SenderKey == userA && m.ReceiverKey == userB) || (m.SenderKey == userB && m.ReceiverKey == userA) {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessageRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeConversationCache keys entries the same way the redis implementation
// does, minus the prefix.
type fakeConversationCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.DirectMessage
	invalidated []string
}

func newFakeCache() *fakeConversationCache {
	return &fakeConversationCache{entries: make(map[string][]domain.DirectMessage)}
}

func (f *fakeConversationCache) Get(ctx context.Context, key string) ([]domain.DirectMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs, ok := f.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return msgs, nil
}

func (f *fakeConversationCache) Set(ctx context.Context, key string, messages []domain.DirectMessage, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = messages
	return nil
}

func (f *fakeConversationCache) BuildKey(userA, userB string) string {
	low, high := domain.CanonicalPair(userA, userB)
	return low + ":" + high
}

func (f *fakeConversationCache) Invalidate(ctx context.Context, userA, userB string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	low, high := domain.CanonicalPair(userA, userB)
	key := low + ":" + high
	delete(f.entries, key)
	f.invalidated = append(f.invalidated, key)
	return nil
}

func (f *fakeConversationCache) Close() error { return nil }

func (f *fakeConversationCache) invalidatedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.invalidated))
	copy(out, f.invalidated)
	return out
}

var _ cache.ConversationCache = (*fakeConversationCache)(nil)

func newTestHub(t *testing.T) *hub.Hub {
	t.Helper()
	h := hub.NewHub(config.WebSocketConfig{})
	go h.Run()
	return h
}

// connect registers a connectionless client and waits until the hub can
// address it, draining the probe used to detect that.
func connect(t *testing.T, h *hub.Hub, id string) *hub.Client {
	t.Helper()
	c := hub.NewClient(id, h, nil, config.WebSocketConfig{})
	h.Register(c)
	require.Eventually(t, func() bool {
		return h.Direct(id, map[string]string{"type": "probe"})
	}, time.Second, 5*time.Millisecond)
	<-c.Send
	return c
}

func recvMsg(t *testing.T, c *hub.Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.Send:
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		return decoded
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID)
		return nil
	}
}

func expectNothing(t *testing.T, c *hub.Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("client %s unexpectedly received %s", c.ID, data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDMService_RegisterBindsKey(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	svc := NewDirectMessageService(h, reg, &fakeMessageRepo{}, newFakeCache())

	c := connect(t, h, "conn-1")
	svc.HandleRegister(context.Background(), c, "alice")

	clientID, ok := reg.Lookup("alice")
	req.True(ok)
	req.Equal("conn-1", clientID)
	req.Equal("alice", c.Session.UserKey())
}

func TestDMService_RegisterEmptyKeyIsDropped(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	svc := NewDirectMessageService(h, reg, &fakeMessageRepo{}, newFakeCache())

	c := connect(t, h, "conn-1")
	svc.HandleRegister(context.Background(), c, "")

	req.Empty(c.Session.UserKey())
}

func TestDMService_DeliversToRecipientAndEchoesSender(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	repo := &fakeMessageRepo{}
	convCache := newFakeCache()
	svc := NewDirectMessageService(h, reg, repo, convCache)

	sender := connect(t, h, "conn-1")
	recipient := connect(t, h, "conn-2")
	svc.HandleRegister(context.Background(), sender, "alice")
	svc.HandleRegister(context.Background(), recipient, "bob")

	svc.HandleDirectMessage(context.Background(), sender, "bob", "hello bob")

	got := recvMsg(t, recipient)
	req.Equal(domain.MsgTypeNewDirectMessage, got["type"])
	req.Equal("alice", got["from"])
	req.Equal("bob", got["to"])
	req.Equal("hello bob", got["body"])
	req.NotZero(got["id"])

	echo := recvMsg(t, sender)
	req.Equal(domain.MsgTypeNewDirectMessage, echo["type"])
	req.Equal("hello bob", echo["body"])

	// Persisted before delivery and the pair's cache entry invalidated.
	req.Equal(1, repo.callCount())
	req.Equal([]string{"alice:bob"}, convCache.invalidatedKeys())
}

func TestDMService_OfflineRecipientStillPersistsAndEchoes(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	repo := &fakeMessageRepo{}
	svc := NewDirectMessageService(h, reg, repo, newFakeCache())

	sender := connect(t, h, "conn-1")
	svc.HandleRegister(context.Background(), sender, "alice")

	svc.HandleDirectMessage(context.Background(), sender, "bob", "are you there")

	echo := recvMsg(t, sender)
	req.Equal("are you there", echo["body"])
	req.Equal(1, repo.callCount())
}

func TestDMService_PersistFailureSuppressesDelivery(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	repo := &fakeMessageRepo{createErr: errors.New("db down")}
	convCache := newFakeCache()
	svc := NewDirectMessageService(h, reg, repo, convCache)

	sender := connect(t, h, "conn-1")
	recipient := connect(t, h, "conn-2")
	svc.HandleRegister(context.Background(), sender, "alice")
	svc.HandleRegister(context.Background(), recipient, "bob")

	svc.HandleDirectMessage(context.Background(), sender, "bob", "hello")

	expectNothing(t, recipient)
	expectNothing(t, sender)
	req.Empty(convCache.invalidatedKeys())
}

func TestDMService_UnregisteredSenderIsDropped(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	repo := &fakeMessageRepo{}
	svc := NewDirectMessageService(h, reg, repo, newFakeCache())

	sender := connect(t, h, "conn-1")

	svc.HandleDirectMessage(context.Background(), sender, "bob", "hello")

	expectNothing(t, sender)
	req.Zero(repo.callCount())
}

func TestDMService_IncompleteMessageIsDropped(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	repo := &fakeMessageRepo{}
	svc := NewDirectMessageService(h, reg, repo, newFakeCache())

	sender := connect(t, h, "conn-1")
	svc.HandleRegister(context.Background(), sender, "alice")

	svc.HandleDirectMessage(context.Background(), sender, "", "hello")
	svc.HandleDirectMessage(context.Background(), sender, "bob", "")

	expectNothing(t, sender)
	req.Zero(repo.callCount())
}

func TestDMService_SelfMessageDeliversOnce(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	svc := NewDirectMessageService(h, reg, &fakeMessageRepo{}, newFakeCache())

	c := connect(t, h, "conn-1")
	svc.HandleRegister(context.Background(), c, "alice")

	svc.HandleDirectMessage(context.Background(), c, "alice", "note to self")

	got := recvMsg(t, c)
	req.Equal("note to self", got["body"])
	expectNothing(t, c)
}

func TestDMService_StaleBindingRedirectsToNewestConnection(t *testing.T) {
	req := require.New(t)
	h := newTestHub(t)
	reg := registry.NewMemoryRegistry()
	svc := NewDirectMessageService(h, reg, &fakeMessageRepo{}, newFakeCache())

	old := connect(t, h, "conn-old")
	fresh := connect(t, h, "conn-new")
	sender := connect(t, h, "conn-s")
	svc.HandleRegister(context.Background(), old, "bob")
	svc.HandleRegister(context.Background(), fresh, "bob")
	svc.HandleRegister(context.Background(), sender, "alice")

	svc.HandleDirectMessage(context.Background(), sender, "bob", "hi")

	got := recvMsg(t, fresh)
	req.Equal("hi", got["body"])
	expectNothing(t, old)
}

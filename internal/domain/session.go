package domain

import (
	"sync"
	"time"
)

// Session holds the per-connection bindings: the user key registered for
// direct messaging and the party the connection currently participates in.
// A connection is a member of at most one party at a time.
type Session struct {
	ID           string
	CreatedAt    time.Time
	userKey      string
	partyID      string
	lastActiveAt time.Time
	mu           sync.RWMutex
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		lastActiveAt: now,
	}
}

// Register binds the connection to a user key for direct-message addressing.
func (s *Session) Register(userKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userKey = userKey
	s.lastActiveAt = time.Now()
}

// UserKey returns the registered user key, or "" when unregistered.
func (s *Session) UserKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userKey
}

func (s *Session) JoinParty(partyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partyID = partyID
	s.lastActiveAt = time.Now()
}

func (s *Session) LeaveParty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partyID = ""
	s.lastActiveAt = time.Now()
}

// PartyID returns the party the connection is in, or "" when unbound.
func (s *Session) PartyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partyID
}

func (s *Session) IsInParty() bool {
	return s.PartyID() != ""
}

func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = time.Now()
}

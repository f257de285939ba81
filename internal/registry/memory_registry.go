package registry

import "sync"

// MemoryRegistry is the in-process Registry implementation.
type MemoryRegistry struct {
	mu    sync.RWMutex
	byKey map[string]string // userKey -> clientID
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byKey: make(map[string]string)}
}

func (r *MemoryRegistry) Register(userKey, clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[userKey] = clientID
}

func (r *MemoryRegistry) Lookup(userKey string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clientID, ok := r.byKey[userKey]
	return clientID, ok
}

func (r *MemoryRegistry) Unregister(userKey, clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.byKey[userKey]; ok && current == clientID {
		delete(r.byKey, userKey)
	}
}

var _ Registry = (*MemoryRegistry)(nil)

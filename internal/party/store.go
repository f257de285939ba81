package party

import "github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"

// Store is the process-wide table of active parties. Parties are created
// lazily on first join and removed as soon as they empty; an empty party is
// never left in the table.
//
// Store does no locking of its own: every access goes through the
// Coordinator, which serializes all party mutations.
type Store struct {
	parties map[string]*domain.Party
}

func NewStore() *Store {
	return &Store{parties: make(map[string]*domain.Party)}
}

func (s *Store) Get(partyID string) (*domain.Party, bool) {
	p, ok := s.parties[partyID]
	return p, ok
}

// GetOrCreate returns the party for partyID, creating it with hostID as the
// initial host when unknown. The second result reports whether it was created.
func (s *Store) GetOrCreate(partyID, hostID string) (*domain.Party, bool) {
	if p, ok := s.parties[partyID]; ok {
		return p, false
	}
	p := domain.NewParty(partyID, hostID)
	s.parties[partyID] = p
	return p, true
}

func (s *Store) Remove(partyID string) {
	delete(s.parties, partyID)
}

func (s *Store) Len() int {
	return len(s.parties)
}

package domain

// DefaultPartyState is the playback token a party starts with.
const DefaultPartyState = "paused"

// Party groups live connections around a shared playback state. It keeps
// participants in join order so host failover is deterministic: the
// earliest-joined participant still present becomes the new host.
//
// Party is not safe for concurrent use; all access is serialized by the
// party coordinator.
type Party struct {
	ID           string
	participants map[string]*Participant
	order        []string // connection IDs in join order
	hostID       string
	state        string
}

// NewParty creates an empty party hosted by hostID with the default state.
func NewParty(id, hostID string) *Party {
	return &Party{
		ID:           id,
		participants: make(map[string]*Participant),
		hostID:       hostID,
		state:        DefaultPartyState,
	}
}

// AddParticipant inserts p, marking it as host when its ID matches the
// party's host pointer. Adding the same connection twice is a no-op.
func (pt *Party) AddParticipant(p *Participant) {
	if _, ok := pt.participants[p.ID]; ok {
		return
	}
	p.IsHost = p.ID == pt.hostID
	pt.participants[p.ID] = p
	pt.order = append(pt.order, p.ID)
}

// RemoveParticipant deletes the participant for connectionID and returns it.
func (pt *Party) RemoveParticipant(connectionID string) (*Participant, bool) {
	p, ok := pt.participants[connectionID]
	if !ok {
		return nil, false
	}
	delete(pt.participants, connectionID)
	for i, id := range pt.order {
		if id == connectionID {
			pt.order = append(pt.order[:i], pt.order[i+1:]...)
			break
		}
	}
	return p, true
}

// ElectHost promotes the earliest-joined participant still present and
// returns it. Returns nil when the party is empty.
func (pt *Party) ElectHost() *Participant {
	if len(pt.order) == 0 {
		return nil
	}
	next := pt.participants[pt.order[0]]
	next.IsHost = true
	pt.hostID = next.ID
	return next
}

// Host returns the current host participant, or nil if absent.
func (pt *Party) Host() *Participant {
	return pt.participants[pt.hostID]
}

// HostID returns the connection ID of the current host.
func (pt *Party) HostID() string {
	return pt.hostID
}

// IsHost reports whether connectionID is a present participant and the host.
func (pt *Party) IsHost(connectionID string) bool {
	_, present := pt.participants[connectionID]
	return present && connectionID == pt.hostID
}

// Get returns the participant for connectionID.
func (pt *Party) Get(connectionID string) (*Participant, bool) {
	p, ok := pt.participants[connectionID]
	return p, ok
}

// State returns the current playback token.
func (pt *Party) State() string {
	return pt.state
}

// SetState replaces the playback token.
func (pt *Party) SetState(state string) {
	pt.state = state
}

// Size returns the number of participants.
func (pt *Party) Size() int {
	return len(pt.participants)
}

// Participants returns a snapshot of all participants in join order.
func (pt *Party) Participants() []Participant {
	out := make([]Participant, 0, len(pt.order))
	for _, id := range pt.order {
		out = append(out, *pt.participants[id])
	}
	return out
}

package party

import (
	"fmt"
	"sync"
	"time"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

// Broadcaster is the coordinator's view of the broadcast router.
type Broadcaster interface {
	RoomAll(partyID string, message interface{})
	RoomOthers(partyID, exclude string, message interface{})
}

// Coordinator is the state machine governing join, leave, host failover and
// state changes for all parties. One mutex serializes every party mutation
// together with the broadcasts it issues, so broadcasts for a party always
// go out in mutation order. Unauthorized or unbound requests are dropped
// silently; callers get no error signal.
type Coordinator struct {
	mu     sync.Mutex
	store  *Store
	router Broadcaster
}

func NewCoordinator(store *Store, router Broadcaster) *Coordinator {
	return &Coordinator{store: store, router: router}
}

// JoinResult is delivered only to the joining connection.
type JoinResult struct {
	State    string
	HostName string
}

// Join adds connectionID to the party, creating it on demand with the joiner
// as host. The joiner receives the current state and host name; the rest of
// the room gets a system notice and everyone gets the participant list.
func (c *Coordinator) Join(partyID, connectionID string, profile domain.UserProfile) JoinResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	party, created := c.store.GetOrCreate(partyID, connectionID)
	participant := domain.NewParticipant(connectionID, profile)
	party.AddParticipant(participant)

	host := party.Host()
	result := JoinResult{State: party.State(), HostName: host.Name}

	l := log.L()
	l.Info().
		Str(log.FieldPartyID, partyID).
		Str(log.FieldClientID, connectionID).
		Bool("is_host", participant.IsHost).
		Bool("created", created).
		Msg("participant joined party")

	c.router.RoomOthers(partyID, connectionID,
		domain.NewSystemMessage(fmt.Sprintf("%s has joined the party.", participant.Name)))
	c.router.RoomAll(partyID, &domain.UpdateParticipantsMessage{
		Type:         domain.MsgTypeUpdateParticipants,
		Participants: party.Participants(),
	})

	return result
}

// ChangeState sets the party's playback token and announces it to the whole
// room. Silently ignored unless connectionID is the present host.
func (c *Coordinator) ChangeState(partyID, connectionID, newState string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	party, ok := c.store.Get(partyID)
	if !ok || !isHost(party, connectionID) {
		return false
	}

	party.SetState(newState)
	c.router.RoomAll(partyID, &domain.NewPartyStateMessage{
		Type:       domain.MsgTypeNewPartyState,
		NewState:   newState,
		ByHostName: party.Host().Name,
	})
	return true
}

// Chat broadcasts a room chat message wrapped with the sender's participant
// snapshot and a server timestamp. Room chat is ephemeral: nothing is
// persisted. Dropped unless the sender is a participant and the payload
// carries both a type tag and content.
func (c *Coordinator) Chat(partyID, connectionID string, payload domain.ChatPayload) bool {
	if payload.Type == "" || payload.Content == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	party, ok := c.store.Get(partyID)
	if !ok {
		return false
	}
	sender, ok := party.Get(connectionID)
	if !ok {
		return false
	}

	c.router.RoomAll(partyID, &domain.NewChatMessage{
		Type:      domain.MsgTypeNewChatMessage,
		User:      *sender,
		Message:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
	return true
}

// Typing broadcasts a fire-and-forget typing hint to everyone but the
// sender. No state is kept and nothing expires it; clients pair start and
// stop themselves.
func (c *Coordinator) Typing(partyID, connectionID string, typing bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	party, ok := c.store.Get(partyID)
	if !ok {
		return false
	}
	sender, ok := party.Get(connectionID)
	if !ok {
		return false
	}

	msgType := domain.MsgTypeUserStoppedTyping
	if typing {
		msgType = domain.MsgTypeUserIsTyping
	}
	c.router.RoomOthers(partyID, connectionID, &domain.TypingMessage{
		Type: msgType,
		User: *sender,
	})
	return true
}

// LeaveResult describes the outcome of removing a participant.
type LeaveResult struct {
	Removed   bool
	Destroyed bool
}

// Leave removes connectionID from the party. An emptied party is destroyed
// with no further broadcasts. If the host left, the earliest-joined
// remaining participant is promoted and the room is told who; otherwise a
// plain departure notice goes out. Either way the remaining room gets the
// updated participant list. No-op when the party or participant is unknown.
func (c *Coordinator) Leave(partyID, connectionID string) LeaveResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	party, ok := c.store.Get(partyID)
	if !ok {
		return LeaveResult{}
	}

	wasHost := isHost(party, connectionID)
	removed, ok := party.RemoveParticipant(connectionID)
	if !ok {
		return LeaveResult{}
	}

	l := log.L()

	if party.Size() == 0 {
		c.store.Remove(partyID)
		l.Info().Str(log.FieldPartyID, partyID).Msg("party emptied and closed")
		return LeaveResult{Removed: true, Destroyed: true}
	}

	if wasHost {
		newHost := party.ElectHost()
		l.Info().
			Str(log.FieldPartyID, partyID).
			Str(log.FieldClientID, newHost.ID).
			Msg("host left, new host elected")
		c.router.RoomAll(partyID, domain.NewSystemMessage(fmt.Sprintf(
			"%s (the host) has left. %s is the new host.", departedName(removed), newHost.Name)))
	} else {
		c.router.RoomAll(partyID, domain.NewSystemMessage(fmt.Sprintf(
			"%s has left the party.", departedName(removed))))
	}

	c.router.RoomAll(partyID, &domain.UpdateParticipantsMessage{
		Type:         domain.MsgTypeUpdateParticipants,
		Participants: party.Participants(),
	})

	return LeaveResult{Removed: true}
}

// isHost is the authorization predicate for state changes: identity equality
// with the party's host pointer, nothing more.
func isHost(party *domain.Party, connectionID string) bool {
	return party.IsHost(connectionID)
}

func departedName(p *domain.Participant) string {
	if p.Name == "" {
		return "A user"
	}
	return p.Name
}

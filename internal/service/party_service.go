package service

import (
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/hub"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/party"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/registry"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

type partyService struct {
	hub      *hub.Hub
	coord    *party.Coordinator
	registry registry.Registry
}

func NewPartyService(h *hub.Hub, coord *party.Coordinator, reg registry.Registry) PartyService {
	return &partyService{
		hub:      h,
		coord:    coord,
		registry: reg,
	}
}

func (s *partyService) HandleJoinParty(c *hub.Client, partyID string, profile domain.UserProfile) {
	if partyID == "" {
		l := log.L()
		l.Debug().Str(log.FieldClientID, c.ID).Msg("joinParty without party id dropped")
		return
	}

	// One party per connection: joining a new party leaves the current one
	// with the same broadcasts a disconnect would trigger.
	if c.Session.IsInParty() {
		s.leaveCurrentParty(c)
	}

	s.hub.JoinParty(c, partyID)
	result := s.coord.Join(partyID, c.ID, profile)
	c.Session.JoinParty(partyID)

	c.SendMessage(&domain.NewPartyStateMessage{
		Type:       domain.MsgTypeNewPartyState,
		NewState:   result.State,
		ByHostName: result.HostName,
	})
}

func (s *partyService) HandleStateChange(c *hub.Client, newState string) {
	partyID := c.Session.PartyID()
	if partyID == "" || newState == "" {
		return
	}
	// Non-host attempts are silently ignored inside the coordinator.
	s.coord.ChangeState(partyID, c.ID, newState)
}

func (s *partyService) HandleChatMessage(c *hub.Client, payload domain.ChatPayload) {
	partyID := c.Session.PartyID()
	if partyID == "" {
		return
	}
	s.coord.Chat(partyID, c.ID, payload)
}

func (s *partyService) HandleTyping(c *hub.Client, typing bool) {
	partyID := c.Session.PartyID()
	if partyID == "" {
		return
	}
	s.coord.Typing(partyID, c.ID, typing)
}

func (s *partyService) HandleDisconnect(c *hub.Client) {
	if userKey := c.Session.UserKey(); userKey != "" {
		s.registry.Unregister(userKey, c.ID)
	}
	s.leaveCurrentParty(c)
}

func (s *partyService) leaveCurrentParty(c *hub.Client) {
	partyID := c.Session.PartyID()
	if partyID == "" {
		return
	}

	// Drop the leaver from the delivery audience before the departure
	// broadcasts go out; they are addressed to the remaining room.
	s.hub.LeaveParty(c, partyID)
	s.coord.Leave(partyID, c.ID)
	c.Session.LeaveParty()
}

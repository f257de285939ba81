package hub

import (
	"encoding/json"
	"sync"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/config"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

// Hub is the broadcast router. It owns the set of live connections and the
// per-party membership table, and fans messages out to exactly the right
// audience: a whole party, a party minus the originator, or one connection.
//
// All party broadcasts funnel through a single Run loop, so broadcasts for
// one party are delivered in the order they were enqueued.
type Hub struct {
	clients    map[string]*Client            // clientID -> client
	parties    map[string]map[string]*Client // partyID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *partyMessage
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

type partyMessage struct {
	PartyID string
	Message []byte
	Exclude string // client ID to skip, "" for none
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		parties:    make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *partyMessage, 256),
		config:     cfg,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for partyID, members := range h.parties {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.parties, partyID)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if members, ok := h.parties[msg.PartyID]; ok {
				for clientID, client := range members {
					if clientID == msg.Exclude {
						continue
					}
					select {
					case client.Send <- msg.Message:
					default:
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinParty adds the client to a party's delivery audience.
func (h *Hub) JoinParty(client *Client, partyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.parties[partyID]; !ok {
		h.parties[partyID] = make(map[string]*Client)
	}
	h.parties[partyID][client.ID] = client
}

// LeaveParty removes the client from a party's delivery audience.
func (h *Hub) LeaveParty(client *Client, partyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.parties[partyID]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.parties, partyID)
		}
	}
}

// RoomAll delivers message to every member of the party, originator included.
func (h *Hub) RoomAll(partyID string, message interface{}) {
	h.enqueue(partyID, message, "")
}

// RoomOthers delivers message to every member of the party except exclude.
func (h *Hub) RoomOthers(partyID, exclude string, message interface{}) {
	h.enqueue(partyID, message, exclude)
}

func (h *Hub) enqueue(partyID string, message interface{}, exclude string) {
	data, err := json.Marshal(message)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldPartyID, partyID).Msg("failed to marshal broadcast")
		return
	}
	h.broadcast <- &partyMessage{PartyID: partyID, Message: data, Exclude: exclude}
}

// Direct delivers message to one connection if it is currently connected.
// Returns false when the target is gone; the message is then dropped.
func (h *Hub) Direct(clientID string, message interface{}) bool {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return client.SendMessage(message) == nil
}

// PartySize returns the number of connections in the party's audience.
func (h *Hub) PartySize(partyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.parties[partyID]; ok {
		return len(members)
	}
	return 0
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}

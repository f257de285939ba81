package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/config"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/hub"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/service"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades connections and dispatches inbound events. Malformed
// events are dropped without a reply, matching the rest of the silent no-op
// surface.
type WSHandler struct {
	hub     *hub.Hub
	parties service.PartyService
	dms     service.DirectMessageService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, parties service.PartyService, dms service.DirectMessageService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		parties: parties,
		dms:     dms,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", func(c *gin.Context) {
		h.HandleWebSocket(c.Writer, c.Request)
	})
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage, h.handleClose)
}

func (h *WSHandler) handleClose(client *hub.Client) {
	h.parties.HandleDisconnect(client)
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	l := log.L()

	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		l.Debug().Str(log.FieldClientID, client.ID).Msg("unparseable message dropped")
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeJoinParty:
		var msg domain.JoinPartyMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.dropped(client, base.Type)
			return
		}
		h.parties.HandleJoinParty(client, msg.PartyID, msg.UserProfile)

	case domain.MsgTypePartyStateChange:
		var msg domain.PartyStateChangeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.dropped(client, base.Type)
			return
		}
		h.parties.HandleStateChange(client, msg.NewState)

	case domain.MsgTypeChatMessage:
		var msg domain.ChatMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.dropped(client, base.Type)
			return
		}
		h.parties.HandleChatMessage(client, msg.Message)

	case domain.MsgTypeTypingStart:
		h.parties.HandleTyping(client, true)

	case domain.MsgTypeTypingStop:
		h.parties.HandleTyping(client, false)

	case domain.MsgTypeRegister:
		var msg domain.RegisterMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.dropped(client, base.Type)
			return
		}
		h.dms.HandleRegister(ctx, client, msg.UserKey)

	case domain.MsgTypeDirectMessage:
		var msg domain.DirectMessageIn
		if err := json.Unmarshal(message, &msg); err != nil {
			h.dropped(client, base.Type)
			return
		}
		h.dms.HandleDirectMessage(ctx, client, msg.To, msg.Body)

	default:
		l.Debug().
			Str(log.FieldClientID, client.ID).
			Str(log.FieldEvent, base.Type).
			Msg("unknown message type dropped")
	}
}

func (h *WSHandler) dropped(client *hub.Client, event string) {
	l := log.L()
	l.Debug().
		Str(log.FieldClientID, client.ID).
		Str(log.FieldEvent, event).
		Msg("malformed message dropped")
}

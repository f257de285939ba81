package domain

// WebSocket message types from client.
const (
	MsgTypeJoinParty        = "joinParty"
	MsgTypePartyStateChange = "partyStateChange"
	MsgTypeChatMessage      = "chatMessage"
	MsgTypeTypingStart      = "typingStart"
	MsgTypeTypingStop       = "typingStop"
	MsgTypeRegister         = "register"
	MsgTypeDirectMessage    = "direct_message"
)

// WebSocket message types to client.
const (
	MsgTypeNewPartyState      = "newPartyState"
	MsgTypeSystemMessage      = "systemMessage"
	MsgTypeUpdateParticipants = "updateParticipants"
	MsgTypeNewChatMessage     = "newChatMessage"
	MsgTypeUserIsTyping       = "userIsTyping"
	MsgTypeUserStoppedTyping  = "userStoppedTyping"
	MsgTypeNewDirectMessage   = "new_direct_message"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type JoinPartyMessage struct {
	Type        string      `json:"type"`
	PartyID     string      `json:"partyId"`
	UserProfile UserProfile `json:"userProfile"`
}

type PartyStateChangeMessage struct {
	Type     string `json:"type"`
	NewState string `json:"newState"`
}

// ChatPayload is the body of a room chat message. Both fields are required;
// a payload missing either is dropped without a broadcast.
type ChatPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ChatMessage struct {
	Type    string      `json:"type"`
	Message ChatPayload `json:"message"`
}

type RegisterMessage struct {
	Type    string `json:"type"`
	UserKey string `json:"userKey"`
}

type DirectMessageIn struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// Server -> Client messages

type NewPartyStateMessage struct {
	Type       string `json:"type"`
	NewState   string `json:"newState"`
	ByHostName string `json:"byHostName"`
}

type SystemMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func NewSystemMessage(content string) *SystemMessage {
	return &SystemMessage{Type: MsgTypeSystemMessage, Content: content}
}

type UpdateParticipantsMessage struct {
	Type         string        `json:"type"`
	Participants []Participant `json:"participants"`
}

type NewChatMessage struct {
	Type      string      `json:"type"`
	User      Participant `json:"user"`
	Message   ChatPayload `json:"message"`
	Timestamp int64       `json:"timestamp"`
}

type TypingMessage struct {
	Type string      `json:"type"`
	User Participant `json:"user"`
}

type NewDirectMessage struct {
	Type      string `json:"type"`
	ID        uint   `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}

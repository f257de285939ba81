package domain

import "time"

// DirectMessage is a persisted point-to-point message between two user keys.
// ID and CreatedAt are assigned by the store on insert.
type DirectMessage struct {
	ID          uint      `json:"id"`
	SenderKey   string    `json:"from"`
	ReceiverKey string    `json:"to"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

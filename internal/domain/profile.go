package domain

import "time"

// Profile is the persisted user profile, keyed by the opaque user key
// established outside this service.
type Profile struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	AvatarColor string    `json:"avatarColor,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

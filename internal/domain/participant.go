package domain

// UserProfile carries the client-supplied display fields sent with joinParty.
// It never carries an identity: participant IDs are always assigned from the
// connection so a client cannot spoof or duplicate another participant.
type UserProfile struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	AvatarColor string `json:"avatarColor,omitempty"`
}

// Participant is one live connection's presence inside a party.
type Participant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	AvatarColor string `json:"avatarColor,omitempty"`
	IsHost      bool   `json:"isHost"`
}

// NewParticipant builds a Participant from a profile, forcing the ID from the
// connection.
func NewParticipant(connectionID string, profile UserProfile) *Participant {
	return &Participant{
		ID:          connectionID,
		Name:        profile.Name,
		Avatar:      profile.Avatar,
		AvatarColor: profile.AvatarColor,
	}
}

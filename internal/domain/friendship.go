package domain

import "time"

// Friendship statuses.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// Friendship is a relationship between two user keys. The pair is stored
// canonicalized (lexicographically sorted) so (A,B) and (B,A) map to one row;
// Requester records which side initiated it.
type Friendship struct {
	UserLow   string    `json:"user_low"`
	UserHigh  string    `json:"user_high"`
	Requester string    `json:"requester"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalPair orders two user keys lexicographically.
func CanonicalPair(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}

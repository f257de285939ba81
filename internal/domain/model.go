package domain

import "time"

// ProfileModel is the GORM model for the profiles table.
type ProfileModel struct {
	Key         string    `gorm:"column:user_key;type:varchar(64);primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null;index"`
	Avatar      string    `gorm:"type:varchar(255)"`
	AvatarColor string    `gorm:"type:varchar(16)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ProfileModel) TableName() string { return "profiles" }

func (m *ProfileModel) ToDomain() *Profile {
	return &Profile{
		Key:         m.Key,
		Name:        m.Name,
		Avatar:      m.Avatar,
		AvatarColor: m.AvatarColor,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ProfileToModel(p *Profile) *ProfileModel {
	return &ProfileModel{
		Key:         p.Key,
		Name:        p.Name,
		Avatar:      p.Avatar,
		AvatarColor: p.AvatarColor,
	}
}

// FriendshipModel is the GORM model for the friendships table. The pair
// columns are canonicalized before storage; the unique index prevents a
// duplicate row for the reversed pair.
type FriendshipModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserLow   string    `gorm:"column:user_low;type:varchar(64);not null;uniqueIndex:idx_friend_pair"`
	UserHigh  string    `gorm:"column:user_high;type:varchar(64);not null;uniqueIndex:idx_friend_pair"`
	Requester string    `gorm:"type:varchar(64);not null"`
	Status    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (FriendshipModel) TableName() string { return "friendships" }

func (m *FriendshipModel) ToDomain() *Friendship {
	return &Friendship{
		UserLow:   m.UserLow,
		UserHigh:  m.UserHigh,
		Requester: m.Requester,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// DirectMessageModel is the GORM model for the direct_messages table.
// Append-only; rows are never updated.
type DirectMessageModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	SenderKey   string    `gorm:"column:sender_key;type:varchar(64);not null;index:idx_dm_sender"`
	ReceiverKey string    `gorm:"column:receiver_key;type:varchar(64);not null;index:idx_dm_receiver"`
	Body        string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (DirectMessageModel) TableName() string { return "direct_messages" }

func (m *DirectMessageModel) ToDomain() *DirectMessage {
	return &DirectMessage{
		ID:          m.ID,
		SenderKey:   m.SenderKey,
		ReceiverKey: m.ReceiverKey,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

func DirectMessageToModel(d *DirectMessage) *DirectMessageModel {
	return &DirectMessageModel{
		SenderKey:   d.SenderKey,
		ReceiverKey: d.ReceiverKey,
		Body:        d.Body,
	}
}

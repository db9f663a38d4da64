package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// Room types.
const (
	RoomTypeDm    = "dm"
	RoomTypeGroup = "group"
)

// Member roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Room represents a container of two or more users sharing a message stream:
// either a two-person "dm" or an N-person "group".
//
// MemberIDs is a denormalized copy of the member user ids kept in sync with
// the RoomMember rows inside the same transaction. It exists for the hot-path
// membership check and the unread aggregation query, both of which run on
// every room-scoped event. RoomMember rows stay authoritative for roles.
type Room struct {
	RoomID    string `gorm:"primaryKey" json:"room_id"` // UUID
	Name      string
	Type      string         `gorm:"not null;index"` // "dm" або "group"
	CreatedBy string         `gorm:"not null"`
	MemberIDs pq.StringArray `gorm:"type:text[];not null"`
	Members   []RoomMember   `gorm:"foreignKey:RoomID;references:RoomID"`
	CreatedAt time.Time
}

// RoomMember is one (room, user) membership row with its role.
type RoomMember struct {
	RoomID   string `gorm:"primaryKey"`
	UserID   string `gorm:"primaryKey;index"`
	Role     string `gorm:"not null"`
	JoinedAt time.Time
}

// BeforeCreate генерує RoomID, якщо його ще не встановлено.
func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	return
}

// HasMember reports whether the given user id is in the denormalized member
// list.
func (r *Room) HasMember(userID string) bool {
	for _, id := range r.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsDm reports whether the room is a direct room with exactly two members —
// the only shape for which the double-tick signal is defined.
func (r *Room) IsDm() bool {
	return r.Type == RoomTypeDm && len(r.MemberIDs) == 2
}

// OtherMember returns the id of the other participant of a two-member direct
// room, or "" when the room is not a dm or the user is not a member.
func (r *Room) OtherMember(userID string) string {
	if !r.IsDm() {
		return ""
	}
	for _, id := range r.MemberIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

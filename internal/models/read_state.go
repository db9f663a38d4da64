package models

import "time"

// RoomUserState tracks the per-user per-room read high-water mark.
// One row per (user, room) pair; LastReadAt only ever moves forward
// (enforced by the storage upsert).
type RoomUserState struct {
	UserID     string    `gorm:"primaryKey"`
	RoomID     string    `gorm:"primaryKey"`
	LastReadAt time.Time `gorm:"not null"`
}

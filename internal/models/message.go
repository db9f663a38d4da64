package models

import (
	"strconv"

	"gorm.io/gorm"
)

// Message statuses. The status column is written once at creation and is not
// authoritative for read state — per-user read state supersedes it.
const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

// Message is one persisted chat message in PostgreSQL.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt
// fields, which serve as the message ID and timestamps.
type Message struct {
	gorm.Model

	// RoomID is the identifier of the chat room where the message was sent.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_created,priority:1"`
	// SenderID is the id of the user who sent the message.
	SenderID string `gorm:"not null"`
	// Content is the text content of the message.
	Content string `gorm:"type:text;not null"`
	// Status is the coarse delivery status ("sent", "delivered", "read").
	Status string `gorm:"not null;default:sent"`
}

// ToCached derives the cache/broadcast representation of the message.
func (m *Message) ToCached() CachedMessage {
	return CachedMessage{
		ID:        strconv.FormatUint(uint64(m.ID), 10),
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.CreatedAt.UnixMilli(),
	}
}

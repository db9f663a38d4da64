package models

// Inbound event types accepted on a WebSocket connection.
const (
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventMarkRead    = "mark_read"
)

// Outbound event types pushed to WebSocket connections.
const (
	EventRoomHistory   = "room_history"
	EventNewMessage    = "new_message"
	EventUserTyping    = "user_typing"
	EventMessagesRead  = "messages_read"
	EventUnreadSummary = "unread_summary"
	EventRoomError     = "room_error"
)

// ClientEvent is the JSON envelope a client sends over the socket.
type ClientEvent struct {
	Type    string `json:"type"`
	RoomID  string `json:"room_id"`
	Content string `json:"content,omitempty"`
}

// CachedMessage is the lightweight message shape kept in the recent-message
// cache and broadcast to room subscribers. Not authoritative — the messages
// table is the source of truth.
type CachedMessage struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix мілісекунди
}

// UnreadRoomSummary is one entry of the derived unread summary.
type UnreadRoomSummary struct {
	RoomID      string `json:"roomId"`
	UnreadCount int64  `json:"unreadCount"`
}

// ServerEvent is the JSON envelope pushed to clients. A single flat struct
// with omitempty payload fields, so every outbound event shares one codec
// path through the write pump and the Redis Pub/Sub channel.
type ServerEvent struct {
	Type     string              `json:"type"`
	RoomID   string              `json:"room_id,omitempty"`
	UserID   string              `json:"user_id,omitempty"`
	Message  *CachedMessage      `json:"message,omitempty"`
	Messages []CachedMessage     `json:"messages,omitempty"`
	Rooms    []UnreadRoomSummary `json:"rooms,omitempty"`
	Error    string              `json:"error,omitempty"`

	// ExcludeConnID маршрутизує події типу user_typing: з'єднання-відправник
	// не повинно отримати власний індикатор. Поле використовується лише
	// всередині Pub/Sub конверта.
	ExcludeConnID string `json:"exclude_conn_id,omitempty"`
}

// PushPayload is the notification body handed to the offline-member
// dispatcher.
type PushPayload struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	RoomName   string `json:"roomName,omitempty"`
	FromUserID string `json:"fromUserId"`
	Body       string `json:"body"`
}

// Package readstate derives per-message read metadata from the durable
// message log and the per-user read high-water marks, without storing any
// of it redundantly.
package readstate

import (
	"time"

	"connecto/backend/internal/models"
	"connecto/backend/internal/storage"
)

// Service answers the paginated history query of the HTTP layer.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new read-state aggregation service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// MessageWithReadMeta is one message annotated with read metadata for a
// specific requesting user.
type MessageWithReadMeta struct {
	Message models.Message
	// IsReadByCurrentUser: the requester's lastReadAt covers this message.
	IsReadByCurrentUser bool
	// ReadByCount: how many room members (any role) have read the message.
	ReadByCount int
	// IsReadByOtherUser is the double-tick signal. Populated only for
	// exactly-two-member direct rooms; nil otherwise.
	IsReadByOtherUser *bool
}

// GetRoomMessagesWithReadMeta повертає сторінку повідомлень кімнати з
// read-метаданими для запитувача, найстаріші першими. Курсор
// (before, beforeID) обмежує вибірку повідомленнями раніше за
// повідомлення-курсор; limit обрізається до максимуму на рівні storage.
func (s *Service) GetRoomMessagesWithReadMeta(userID, roomID string, before *time.Time, beforeID uint, limit int) ([]MessageWithReadMeta, error) {
	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	member, err := s.Storage.IsRoomMember(userID, roomID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, storage.ErrNotRoomMember
	}

	messages, err := s.Storage.GetRoomMessages(roomID, before, beforeID, limit)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return []MessageWithReadMeta{}, nil
	}

	states, err := s.Storage.GetRoomReadStates(roomID)
	if err != nil {
		return nil, err
	}

	// Storage повертає найновіші першими; всі history-шляхи ядра віддають
	// хронологічний порядок.
	reverseMessages(messages)

	return AnnotateMessages(userID, room, messages, states), nil
}

// AnnotateMessages computes per-message read metadata. Each message is
// evaluated independently against the members' read high-water marks:
//
//   - IsReadByCurrentUser: requester's lastReadAt >= message.CreatedAt
//   - ReadByCount: members whose lastReadAt >= message.CreatedAt
//   - IsReadByOtherUser: for a two-member dm only, the other member's
//     lastReadAt >= message.CreatedAt
//
// States of users no longer in the room are ignored.
func AnnotateMessages(userID string, room *models.Room, messages []models.Message, states map[string]time.Time) []MessageWithReadMeta {
	currentLastRead, hasCurrent := states[userID]

	otherUserID := room.OtherMember(userID)
	otherLastRead, hasOther := states[otherUserID]

	result := make([]MessageWithReadMeta, 0, len(messages))
	for _, msg := range messages {
		createdAt := msg.CreatedAt

		annotated := MessageWithReadMeta{Message: msg}
		annotated.IsReadByCurrentUser = hasCurrent && !currentLastRead.Before(createdAt)

		for uid, lastRead := range states {
			if room.HasMember(uid) && !lastRead.Before(createdAt) {
				annotated.ReadByCount++
			}
		}

		if room.IsDm() {
			read := hasOther && !otherLastRead.Before(createdAt)
			annotated.IsReadByOtherUser = &read
		}

		result = append(result, annotated)
	}
	return result
}

func reverseMessages(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

// Package notify decides which room members to alert about a new message
// and hands the alert to a best-effort dispatcher. Nothing here is allowed
// to surface a failure back to any connection.
package notify

import (
	"log"

	"connecto/backend/internal/models"
	"connecto/backend/internal/storage"
)

// Dispatcher delivers one notification to one user through an external
// channel. Errors are logged by the caller and otherwise swallowed.
type Dispatcher interface {
	Dispatch(userID string, payload models.PushPayload) error
}

// Service is the offline-member notification orchestrator.
type Service struct {
	Storage    storage.Storage
	Dispatcher Dispatcher
}

// NewService creates the notification service. dispatcher may be nil,
// in which case nothing is dispatched.
func NewService(s storage.Storage, dispatcher Dispatcher) *Service {
	return &Service{Storage: s, Dispatcher: dispatcher}
}

// NotifyRoomMembersOnNewMessage сповіщає всіх учасників кімнати, крім
// відправника, які зараз офлайн (факт присутності протух). Будь-яка
// помилка тут лише логуються — доставка онлайн-учасникам вже відбулась.
func (s *Service) NotifyRoomMembersOnNewMessage(roomID, senderID, content string) {
	if s.Dispatcher == nil {
		return
	}

	room, err := s.Storage.GetRoomByID(roomID)
	if err != nil {
		log.Printf("notify: failed to load room %s: %v", roomID, err)
		return
	}

	for _, memberID := range room.MemberIDs {
		if memberID == senderID {
			continue
		}

		online, err := s.Storage.IsUserOnline(memberID)
		if err != nil {
			log.Printf("notify: presence check failed for user %s: %v", memberID, err)
			continue
		}
		if online {
			continue
		}

		payload := models.PushPayload{
			Type:       models.EventNewMessage,
			RoomID:     roomID,
			RoomName:   room.Name,
			FromUserID: senderID,
			Body:       content,
		}

		if err := s.Dispatcher.Dispatch(memberID, payload); err != nil {
			log.Printf("notify: dispatch to user %s failed: %v", memberID, err)
		}
	}
}

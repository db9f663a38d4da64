package chathub

import (
	"log"
	"time"

	"connecto/backend/internal/models"
)

// HandleEvent обробляє одну вхідну подію з'єднання. Викликається з
// readPump, тож події одного з'єднання йдуть строго послідовно, а
// блокуючі I/O-операції не зачіпають інші з'єднання.
func (m *ManagerService) HandleEvent(client Client, event models.ClientEvent) {
	switch event.Type {
	case models.EventJoinRoom:
		m.handleJoinRoom(client, event.RoomID)
	case models.EventSendMessage:
		m.handleSendMessage(client, event.RoomID, event.Content)
	case models.EventTyping:
		m.handleTyping(client, event.RoomID)
	case models.EventMarkRead:
		m.handleMarkRead(client, event.RoomID)
	default:
		log.Printf("unknown event type %q from conn %s", event.Type, client.GetConnID())
	}
}

// checkMembership — stateless guard перед кожною room-scoped дією.
// Членство перевіряється заново щоразу, а не кешується на з'єднанні:
// користувача могли видалити з групи посеред сесії.
func (m *ManagerService) checkMembership(client Client, roomID string) bool {
	member, err := m.Storage.IsRoomMember(client.GetUserID(), roomID)
	if err != nil {
		log.Printf("membership check failed for room %s: %v", roomID, err)
		m.sendRoomError(client, roomID, "internal error")
		return false
	}
	if !member {
		m.sendRoomError(client, roomID, "not a member of this room")
		return false
	}
	return true
}

func (m *ManagerService) handleJoinRoom(client Client, roomID string) {
	if !m.checkMembership(client, roomID) {
		return
	}

	m.subscribe(client, roomID)

	if err := m.Storage.SetUserOnline(client.GetUserID()); err != nil {
		log.Printf("failed to set presence for user %s: %v", client.GetUserID(), err)
	}

	// Seed новоприєднаного клієнта з кеша останніх повідомлень.
	messages, err := m.Storage.GetRecentMessages(roomID)
	if err != nil {
		log.Printf("failed to load recent messages for room %s: %v", roomID, err)
		messages = nil
	}

	m.sendToClient(client, models.ServerEvent{
		Type:     models.EventRoomHistory,
		RoomID:   roomID,
		Messages: messages,
	})
}

func (m *ManagerService) handleSendMessage(client Client, roomID, content string) {
	// Порожні roomID/content тихо ігноруються: це свідомий no-op,
	// а не помилка.
	if roomID == "" || content == "" {
		return
	}

	if !m.checkMembership(client, roomID) {
		return
	}

	// Блокування кімнати гарантує, що порядок публікації збігається
	// з порядком прийняття повідомлень у журнал.
	lock := m.roomLock(roomID)
	lock.Lock()

	message := &models.Message{
		RoomID:   roomID,
		SenderID: client.GetUserID(),
		Content:  content,
		Status:   models.MessageStatusSent,
	}

	if err := m.Storage.SaveMessage(message); err != nil {
		lock.Unlock()
		// Без успішного запису жодної розсилки не відбувається.
		m.sendRoomError(client, roomID, "failed to send message")
		return
	}

	cached := message.ToCached()

	if err := m.Storage.AddRecentMessage(cached); err != nil {
		// Кеш — best effort; журнал уже має повідомлення.
		log.Printf("failed to cache message %s: %v", cached.ID, err)
	}

	if err := m.Storage.PublishEvent(models.ServerEvent{
		Type:    models.EventNewMessage,
		RoomID:  roomID,
		Message: &cached,
	}); err != nil {
		log.Printf("failed to publish message %s: %v", cached.ID, err)
	}
	lock.Unlock()

	// Сповіщення офлайн-учасників: асинхронно, помилки проковтуються.
	if m.Notifier != nil {
		go m.Notifier.NotifyRoomMembersOnNewMessage(roomID, client.GetUserID(), content)
	}
}

func (m *ManagerService) handleTyping(client Client, roomID string) {
	if !m.checkMembership(client, roomID) {
		return
	}

	if err := m.Storage.SetUserTyping(roomID, client.GetUserID()); err != nil {
		log.Printf("failed to set typing fact for user %s: %v", client.GetUserID(), err)
	}

	// Індикатор бачать усі, крім самого відправника. Без підтвердження.
	if err := m.Storage.PublishEvent(models.ServerEvent{
		Type:          models.EventUserTyping,
		RoomID:        roomID,
		UserID:        client.GetUserID(),
		ExcludeConnID: client.GetConnID(),
	}); err != nil {
		log.Printf("failed to publish typing event: %v", err)
	}
}

func (m *ManagerService) handleMarkRead(client Client, roomID string) {
	if !m.checkMembership(client, roomID) {
		return
	}

	userID := client.GetUserID()

	if err := m.Storage.MarkRoomAsRead(userID, roomID, time.Now()); err != nil {
		m.sendRoomError(client, roomID, "failed to mark room as read")
		return
	}

	if err := m.Storage.PublishEvent(models.ServerEvent{
		Type:   models.EventMessagesRead,
		RoomID: roomID,
		UserID: userID,
	}); err != nil {
		log.Printf("failed to publish read receipt: %v", err)
	}

	// Свіжий підсумок непрочитаного — лише з'єднанню, що його запросило.
	summary, err := m.Storage.GetUnreadSummary(userID)
	if err != nil {
		log.Printf("failed to compute unread summary for user %s: %v", userID, err)
		return
	}
	m.sendToClient(client, models.ServerEvent{
		Type:  models.EventUnreadSummary,
		Rooms: summary,
	})
}

// sendToClient доставляє подію одному з'єднанню, не блокуючи.
func (m *ManagerService) sendToClient(client Client, event models.ServerEvent) {
	if !client.Send(event) {
		log.Printf("dropping event %s for slow conn %s", event.Type, client.GetConnID())
	}
}

func (m *ManagerService) sendRoomError(client Client, roomID, message string) {
	m.sendToClient(client, models.ServerEvent{
		Type:   models.EventRoomError,
		RoomID: roomID,
		Error:  message,
	})
}

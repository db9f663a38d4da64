package chathub_test

import (
	"errors"
	"testing"
	"time"

	"connecto/backend/internal/chathub"
	"connecto/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, c *MockClient) models.ServerEvent {
	t.Helper()
	select {
	case event := <-c.Received:
		return event
	case <-time.After(time.Second):
		t.Fatal("client did not receive an event in time")
		return models.ServerEvent{}
	}
}

func assertNoEvent(t *testing.T, c *MockClient) {
	t.Helper()
	select {
	case event := <-c.Received:
		t.Errorf("client unexpectedly received event %q", event.Type)
	default:
	}
}

func TestManager_RegisterUnregister(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	clientA := newMockClient("conn_A", "user_A")

	go hub.Run()

	hub.RegisterCh <- clientA
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, hub.Clients, "conn_A")

	hub.UnregisterCh <- clientA
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "conn_A")
}

func TestManager_HandleJoinRoom(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	history := []models.CachedMessage{
		{ID: "1", RoomID: "room1", SenderID: "user_B", Content: "first", Timestamp: 100},
		{ID: "2", RoomID: "room1", SenderID: "user_B", Content: "second", Timestamp: 200},
		{ID: "3", RoomID: "room1", SenderID: "user_B", Content: "third", Timestamp: 300},
	}

	storageMock.On("IsRoomMember", "user_A", "room1").Return(true, nil)
	storageMock.On("SetUserOnline", "user_A").Return(nil)
	storageMock.On("GetRecentMessages", "room1").Return(history, nil)

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventJoinRoom, RoomID: "room1"})

	event := receiveEvent(t, clientA)
	assert.Equal(t, models.EventRoomHistory, event.Type)
	assert.Equal(t, "room1", event.RoomID)
	require.Len(t, event.Messages, 3)
	assert.Equal(t, "first", event.Messages[0].Content)
	assert.Equal(t, "third", event.Messages[2].Content)

	storageMock.AssertCalled(t, "SetUserOnline", "user_A")
}

func TestManager_HandleJoinRoom_NotMember(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	storageMock.On("IsRoomMember", "user_A", "room1").Return(false, nil)

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventJoinRoom, RoomID: "room1"})

	event := receiveEvent(t, clientA)
	assert.Equal(t, models.EventRoomError, event.Type)
	assert.Equal(t, "room1", event.RoomID)

	// Відмовлений join не торкається presence і кеша.
	storageMock.AssertNotCalled(t, "SetUserOnline", mock.Anything)
	storageMock.AssertNotCalled(t, "GetRecentMessages", mock.Anything)
}

func TestManager_HandleSendMessage(t *testing.T) {
	storageMock := new(MockStorage)
	notifierMock := new(MockNotifier)
	hub := chathub.NewManagerService(storageMock, notifierMock)

	createdAt := time.Now()
	storageMock.On("IsRoomMember", "user_A", "room1").Return(true, nil)
	storageMock.On("SaveMessage", mock.AnythingOfType("*models.Message")).
		Run(func(args mock.Arguments) {
			msg := args.Get(0).(*models.Message)
			msg.ID = 42
			msg.CreatedAt = createdAt
		}).Return(nil)
	storageMock.On("AddRecentMessage", mock.AnythingOfType("models.CachedMessage")).Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ServerEvent")).Return(nil)
	notifierMock.On("NotifyRoomMembersOnNewMessage", "room1", "user_A", "hello").Return()

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventSendMessage, RoomID: "room1", Content: "hello"})

	// Notifier викликається асинхронно.
	time.Sleep(100 * time.Millisecond)

	storageMock.AssertCalled(t, "SaveMessage", mock.MatchedBy(func(msg *models.Message) bool {
		return msg.RoomID == "room1" && msg.SenderID == "user_A" && msg.Status == models.MessageStatusSent
	}))
	storageMock.AssertCalled(t, "AddRecentMessage", mock.MatchedBy(func(msg models.CachedMessage) bool {
		return msg.ID == "42" && msg.Content == "hello"
	}))
	storageMock.AssertCalled(t, "PublishEvent", mock.MatchedBy(func(event models.ServerEvent) bool {
		return event.Type == models.EventNewMessage && event.RoomID == "room1" &&
			event.Message != nil && event.Message.Content == "hello"
	}))
	notifierMock.AssertCalled(t, "NotifyRoomMembersOnNewMessage", "room1", "user_A", "hello")
}

func TestManager_HandleSendMessage_EmptyContent(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventSendMessage, RoomID: "room1", Content: ""})
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventSendMessage, RoomID: "", Content: "hello"})

	// Свідомий no-op: ні помилки клієнту, ні звернень до сховища.
	assertNoEvent(t, clientA)
	storageMock.AssertNotCalled(t, "IsRoomMember", mock.Anything, mock.Anything)
	storageMock.AssertNotCalled(t, "SaveMessage", mock.Anything)
}

func TestManager_HandleSendMessage_PersistFailure(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	storageMock.On("IsRoomMember", "user_A", "room1").Return(true, nil)
	storageMock.On("SaveMessage", mock.AnythingOfType("*models.Message")).Return(errors.New("db down"))

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventSendMessage, RoomID: "room1", Content: "hello"})

	event := receiveEvent(t, clientA)
	assert.Equal(t, models.EventRoomError, event.Type)

	// Без успішного запису — жодної розсилки.
	storageMock.AssertNotCalled(t, "AddRecentMessage", mock.Anything)
	storageMock.AssertNotCalled(t, "PublishEvent", mock.Anything)
}

func TestManager_HandleTyping(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	storageMock.On("IsRoomMember", "user_A", "room1").Return(true, nil)
	storageMock.On("SetUserTyping", "room1", "user_A").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ServerEvent")).Return(nil)

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventTyping, RoomID: "room1"})

	storageMock.AssertCalled(t, "SetUserTyping", "room1", "user_A")
	storageMock.AssertCalled(t, "PublishEvent", mock.MatchedBy(func(event models.ServerEvent) bool {
		return event.Type == models.EventUserTyping && event.UserID == "user_A" &&
			event.ExcludeConnID == "conn_A"
	}))

	// Відправник не отримує підтвердження.
	assertNoEvent(t, clientA)
}

func TestManager_HandleMarkRead(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	summary := []models.UnreadRoomSummary{{RoomID: "room2", UnreadCount: 3}}

	storageMock.On("IsRoomMember", "user_A", "room1").Return(true, nil)
	storageMock.On("MarkRoomAsRead", "user_A", "room1", mock.AnythingOfType("time.Time")).Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ServerEvent")).Return(nil)
	storageMock.On("GetUnreadSummary", "user_A").Return(summary, nil)

	clientA := newMockClient("conn_A", "user_A")
	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventMarkRead, RoomID: "room1"})

	storageMock.AssertCalled(t, "PublishEvent", mock.MatchedBy(func(event models.ServerEvent) bool {
		return event.Type == models.EventMessagesRead && event.RoomID == "room1" && event.UserID == "user_A"
	}))

	event := receiveEvent(t, clientA)
	assert.Equal(t, models.EventUnreadSummary, event.Type)
	require.Len(t, event.Rooms, 1)
	assert.Equal(t, "room2", event.Rooms[0].RoomID)
	assert.EqualValues(t, 3, event.Rooms[0].UnreadCount)
}

func TestManager_FanOut(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	storageMock.On("IsRoomMember", mock.Anything, "room1").Return(true, nil)
	storageMock.On("SetUserOnline", mock.Anything).Return(nil)
	storageMock.On("GetRecentMessages", "room1").Return([]models.CachedMessage{}, nil)

	clientA := newMockClient("conn_A", "user_A")
	clientB := newMockClient("conn_B", "user_B")

	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventJoinRoom, RoomID: "room1"})
	hub.HandleEvent(clientB, models.ClientEvent{Type: models.EventJoinRoom, RoomID: "room1"})
	receiveEvent(t, clientA) // room_history
	receiveEvent(t, clientB)

	go hub.Run()

	hub.PubSubCh <- models.ServerEvent{
		Type:          models.EventUserTyping,
		RoomID:        "room1",
		UserID:        "user_A",
		ExcludeConnID: "conn_A",
	}
	time.Sleep(100 * time.Millisecond)

	event := receiveEvent(t, clientB)
	assert.Equal(t, models.EventUserTyping, event.Type)
	assert.Equal(t, "user_A", event.UserID)

	// Маршрутне поле конверта не доходить до клієнта.
	assert.Empty(t, event.ExcludeConnID)

	// Виключене з'єднання не отримує власний індикатор.
	assertNoEvent(t, clientA)
}

func TestManager_FanOut_DropsSlowClient(t *testing.T) {
	storageMock := new(MockStorage)
	hub := chathub.NewManagerService(storageMock, nil)

	storageMock.On("IsRoomMember", mock.Anything, "room1").Return(true, nil)
	storageMock.On("SetUserOnline", mock.Anything).Return(nil)
	storageMock.On("GetRecentMessages", "room1").Return([]models.CachedMessage{}, nil)

	clientA := newMockClient("conn_A", "user_A")
	clientB := newMockClient("conn_B", "user_B")
	clientB.full = true // симулюємо переповнений буфер

	go hub.Run()
	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	time.Sleep(50 * time.Millisecond)

	hub.HandleEvent(clientA, models.ClientEvent{Type: models.EventJoinRoom, RoomID: "room1"})
	hub.HandleEvent(clientB, models.ClientEvent{Type: models.EventJoinRoom, RoomID: "room1"})
	receiveEvent(t, clientA) // room_history

	hub.PubSubCh <- models.ServerEvent{Type: models.EventNewMessage, RoomID: "room1"}
	time.Sleep(100 * time.Millisecond)

	// Повільний клієнт відключений, швидкий отримав подію.
	event := receiveEvent(t, clientA)
	assert.Equal(t, models.EventNewMessage, event.Type)
	assert.NotContains(t, hub.Clients, "conn_B")
	assert.Contains(t, hub.Clients, "conn_A")
}

package chathub_test

import (
	"time"

	"connecto/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a comprehensive mock implementation of the storage.Storage
// interface. It uses testify/mock to allow flexible expectation setting.
type MockStorage struct {
	mock.Mock
}

// Sessions
func (m *MockStorage) CreateSession(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GetSession(sessionID string) (*models.SessionData, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionData), args.Error(1)
}

func (m *MockStorage) DeleteSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

// Ephemeral facts
func (m *MockStorage) SetUserOnline(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) IsUserOnline(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetUserTyping(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) GetTypingUsers(roomID string) ([]string, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Recent-message cache
func (m *MockStorage) AddRecentMessage(msg models.CachedMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetRecentMessages(roomID string) ([]models.CachedMessage, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CachedMessage), args.Error(1)
}

// Rooms and membership
func (m *MockStorage) CreateDmRoom(creatorID, targetID string) (*models.Room, error) {
	args := m.Called(creatorID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) CreateGroupRoom(creatorID, name string, memberIDs []string) (*models.Room, error) {
	args := m.Called(creatorID, name, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) AddMemberToRoom(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) RemoveMemberFromRoom(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomMembers(roomID string) ([]models.RoomMember, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoomMember), args.Error(1)
}

func (m *MockStorage) IsRoomMember(userID, roomID string) (bool, error) {
	args := m.Called(userID, roomID)
	return args.Bool(0), args.Error(1)
}

// Durable message log
func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetRoomMessages(roomID string, before *time.Time, beforeID uint, limit int) ([]models.Message, error) {
	args := m.Called(roomID, before, beforeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Read state
func (m *MockStorage) MarkRoomAsRead(userID, roomID string, at time.Time) error {
	args := m.Called(userID, roomID, at)
	return args.Error(0)
}

func (m *MockStorage) GetUnreadSummary(userID string) ([]models.UnreadRoomSummary, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UnreadRoomSummary), args.Error(1)
}

func (m *MockStorage) GetRoomReadStates(roomID string) (map[string]time.Time, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]time.Time), args.Error(1)
}

// Users
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Broadcast
func (m *MockStorage) PublishEvent(event models.ServerEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockStorage) SubscribeEvents() *redis.PubSub {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*redis.PubSub)
}

// MockNotifier records offline-notification requests.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRoomMembersOnNewMessage(roomID, senderID, content string) {
	m.Called(roomID, senderID, content)
}

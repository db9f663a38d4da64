package storage

import (
	"context"
	"errors"
	"time"

	"connecto/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to the HTTP layer for status mapping.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotRoomMember = errors.New("not a member of this room")
)

type Storage interface {
	// Sessions
	CreateSession(userID, email string) (string, error)
	GetSession(sessionID string) (*models.SessionData, error)
	DeleteSession(sessionID string) error

	// Ephemeral facts (presence / typing)
	SetUserOnline(userID string) error
	IsUserOnline(userID string) (bool, error)
	SetUserTyping(roomID, userID string) error
	GetTypingUsers(roomID string) ([]string, error)

	// Recent-message cache
	AddRecentMessage(msg models.CachedMessage) error
	GetRecentMessages(roomID string) ([]models.CachedMessage, error)

	// Rooms and membership
	CreateDmRoom(creatorID, targetID string) (*models.Room, error)
	CreateGroupRoom(creatorID, name string, memberIDs []string) (*models.Room, error)
	AddMemberToRoom(roomID, userID string) error
	RemoveMemberFromRoom(roomID, userID string) error
	GetRoomByID(roomID string) (*models.Room, error)
	GetRoomMembers(roomID string) ([]models.RoomMember, error)
	IsRoomMember(userID, roomID string) (bool, error)

	// Durable message log
	SaveMessage(msg *models.Message) error
	GetRoomMessages(roomID string, before *time.Time, beforeID uint, limit int) ([]models.Message, error)

	// Read state
	MarkRoomAsRead(userID, roomID string, at time.Time) error
	GetUnreadSummary(userID string) ([]models.UnreadRoomSummary, error)
	GetRoomReadStates(roomID string) (map[string]time.Time, error)

	// Users
	SaveUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)

	// Broadcast fan-out between gateway instances
	PublishEvent(event models.ServerEvent) error
	SubscribeEvents() *redis.PubSub
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID повертає користувача за його ID.
func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

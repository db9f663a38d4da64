package storage

import (
	"encoding/json"
	"errors"
	"time"

	"connecto/backend/internal/config"
	"connecto/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// CreateSession створює нову сесію в Redis з фіксованим TTL
// і повертає непрозорий токен сесії.
func (s *Service) CreateSession(userID, email string) (string, error) {
	sessionID := uuid.New().String()

	session := models.SessionData{
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	if err := s.Redis.Set(s.Ctx, sessionPrefix+sessionID, data, config.SessionTTL).Err(); err != nil {
		return "", err
	}

	return sessionID, nil
}

// GetSession шукає сесію за токеном. Повертає (nil, nil), якщо сесія
// не існує або TTL вже минув — відсутність не є помилкою.
func (s *Service) GetSession(sessionID string) (*models.SessionData, error) {
	data, err := s.Redis.Get(s.Ctx, sessionPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.SessionData
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession видаляє сесію (logout).
func (s *Service) DeleteSession(sessionID string) error {
	return s.Redis.Del(s.Ctx, sessionPrefix+sessionID).Err()
}

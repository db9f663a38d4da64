package storage

import (
	"errors"
	"strings"

	"connecto/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Presence та typing — це ефемерні факти: ключ з TTL у Redis.
// "offline" чи "не друкує" ніколи не записуються явно; істинність
// визначається лише тим, чи ключ ще не протух.

func presenceKey(userID string) string {
	return "presence:" + userID
}

func typingKey(roomID, userID string) string {
	return "typing:" + roomID + ":" + userID
}

// SetUserOnline (пере)встановлює факт присутності. Повторний виклик
// просто оновлює вікно TTL.
func (s *Service) SetUserOnline(userID string) error {
	return s.Redis.Set(s.Ctx, presenceKey(userID), "online", config.PresenceTTL).Err()
}

// IsUserOnline повертає true, якщо факт присутності ще не протух.
func (s *Service) IsUserOnline(userID string) (bool, error) {
	val, err := s.Redis.Get(s.Ctx, presenceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "online", nil
}

// SetUserTyping встановлює короткоживучий факт "користувач друкує".
func (s *Service) SetUserTyping(roomID, userID string) error {
	return s.Redis.Set(s.Ctx, typingKey(roomID, userID), "1", config.TypingTTL).Err()
}

// GetTypingUsers перелічує користувачів, які зараз друкують у кімнаті.
// Redis сам прибирає протухлі ключі, тож окремого чищення не потрібно.
func (s *Service) GetTypingUsers(roomID string) ([]string, error) {
	pattern := "typing:" + roomID + ":*"
	keys, err := s.Redis.Keys(s.Ctx, pattern).Result()
	if err != nil {
		return nil, err
	}

	prefix := "typing:" + roomID + ":"
	users := make([]string, 0, len(keys))
	for _, key := range keys {
		users = append(users, strings.TrimPrefix(key, prefix))
	}
	return users, nil
}

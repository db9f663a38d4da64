package storage

import (
	"encoding/json"
	"log"

	"connecto/backend/internal/config"
	"connecto/backend/internal/models"
)

func recentMessagesKey(roomID string) string {
	return "chat:room:" + roomID + ":recent"
}

// AddRecentMessage додає повідомлення на початок кеша кімнати і зрізає
// список до ліміту. Кеш — чисто швидкий шлях для room_history; його
// втрата (наприклад, після рестарту Redis) не є втратою даних.
func (s *Service) AddRecentMessage(msg models.CachedMessage) error {
	key := recentMessagesKey(msg.RoomID)

	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := s.Redis.LPush(s.Ctx, key, value).Err(); err != nil {
		return err
	}
	return s.Redis.LTrim(s.Ctx, key, 0, config.RecentMessagesLimit-1).Err()
}

// GetRecentMessages повертає вікно останніх повідомлень кімнати у
// хронологічному порядку (найстаріше з утриманого вікна — першим).
func (s *Service) GetRecentMessages(roomID string) ([]models.CachedMessage, error) {
	key := recentMessagesKey(roomID)

	values, err := s.Redis.LRange(s.Ctx, key, 0, config.RecentMessagesLimit-1).Result()
	if err != nil {
		return nil, err
	}
	return decodeRecentMessages(values), nil
}

// decodeRecentMessages розгортає збережений most-recent-first список у
// хронологічний порядок. Пошкоджені записи пропускаються.
func decodeRecentMessages(values []string) []models.CachedMessage {
	messages := make([]models.CachedMessage, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		var msg models.CachedMessage
		if err := json.Unmarshal([]byte(values[i]), &msg); err != nil {
			log.Printf("skipping corrupt cache entry: %v", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

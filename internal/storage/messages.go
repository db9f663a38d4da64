package storage

import (
	"log"
	"time"

	"connecto/backend/internal/config"
	"connecto/backend/internal/models"
)

// SaveMessage додає повідомлення до журналу. msg.ID та msg.CreatedAt
// заповнюються GORM після вставки.
func (s *Service) SaveMessage(msg *models.Message) error {
	if msg.Status == "" {
		msg.Status = models.MessageStatusSent
	}

	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// GetRoomMessages повертає сторінку повідомлень кімнати, найновіші першими.
// before обмежує вибірку повідомленнями, створеними строго раніше за
// вказаний момент; beforeID (id повідомлення-курсора) розриває нічию між
// повідомленнями, що ділять граничний момент.
func (s *Service) GetRoomMessages(roomID string, before *time.Time, beforeID uint, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	if limit > config.MaxHistoryLimit {
		limit = config.MaxHistoryLimit
	}

	query := s.DB.Where("room_id = ?", roomID)
	if cond, args := historyCursor(before, beforeID); cond != "" {
		query = query.Where(cond, args...)
	}

	var messages []models.Message
	if err := query.Order("created_at desc, id desc").Limit(limit).Find(&messages).Error; err != nil {
		log.Printf("ERROR: Failed to get messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// historyCursor будує предикат пагінації. Строге created_at < before
// саме по собі губить повідомлення, що ділять граничний момент з
// курсором; з beforeID вони добираються за меншим id.
func historyCursor(before *time.Time, beforeID uint) (string, []interface{}) {
	if before == nil {
		return "", nil
	}
	if beforeID == 0 {
		return "created_at < ?", []interface{}{*before}
	}
	return "created_at < ? OR (created_at = ? AND id < ?)",
		[]interface{}{*before, *before, beforeID}
}

package storage

import (
	"log"
	"time"

	"connecto/backend/internal/models"

	"gorm.io/gorm/clause"
)

// MarkRoomAsRead піднімає high-water mark прочитаного для пари
// (користувач, кімната). Upsert умовний: позначка ніколи не рухається
// назад, тож відстала конкурентна mark_read з іншої вкладки не може
// відкотити вже зафіксований стан.
func (s *Service) MarkRoomAsRead(userID, roomID string, at time.Time) error {
	state := models.RoomUserState{
		UserID:     userID,
		RoomID:     roomID,
		LastReadAt: at,
	}

	return s.DB.Clauses(lastReadAtConflict(at)).Create(&state).Error
}

// lastReadAtConflict будує ON CONFLICT ... DO UPDATE, що приймає нове
// значення лише коли воно строго пізніше за збережене.
func lastReadAtConflict(at time.Time) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_read_at": at}),
		Where: clause.Where{
			Exprs: []clause.Expression{
				clause.Expr{SQL: "room_user_states.last_read_at < excluded.last_read_at"},
			},
		},
	}
}

// GetUnreadSummary рахує непрочитані повідомлення по кожній кімнаті
// користувача. Кімната без рядка read state повністю непрочитана;
// кімнати з нулем непрочитаних у результат не входять (GROUP BY
// повертає лише кімнати, де щось знайдено).
func (s *Service) GetUnreadSummary(userID string) ([]models.UnreadRoomSummary, error) {
	rawSQL := `
		SELECT m.room_id AS room_id, COUNT(*) AS unread_count
		FROM messages m
		JOIN rooms r ON r.room_id = m.room_id
		LEFT JOIN room_user_states s
			ON s.room_id = m.room_id AND s.user_id = ?
		WHERE r.member_ids @> ARRAY[?]::text[]
			AND m.deleted_at IS NULL
			AND (s.last_read_at IS NULL OR m.created_at > s.last_read_at)
		GROUP BY m.room_id
	`

	summary := make([]models.UnreadRoomSummary, 0)
	if err := s.DB.Raw(rawSQL, userID, userID).Scan(&summary).Error; err != nil {
		log.Printf("ERROR: Failed to compute unread summary for user %s: %v", userID, err)
		return nil, err
	}
	return summary, nil
}

// GetRoomReadStates повертає lastReadAt кожного користувача, що має
// read state у кімнаті, як map userID -> lastReadAt.
func (s *Service) GetRoomReadStates(roomID string) (map[string]time.Time, error) {
	var states []models.RoomUserState
	if err := s.DB.Where("room_id = ?", roomID).Find(&states).Error; err != nil {
		return nil, err
	}

	byUser := make(map[string]time.Time, len(states))
	for _, st := range states {
		byUser[st.UserID] = st.LastReadAt
	}
	return byUser, nil
}

package storage

import (
	"errors"
	"log"
	"time"

	"connecto/backend/internal/models"

	"gorm.io/gorm"
)

// CreateDmRoom створює (або повертає вже наявну) dm-кімнату для пари
// користувачів. Для однієї невпорядкованої пари існує щонайбільше одна
// dm-кімната.
func (s *Service) CreateDmRoom(creatorID, targetID string) (*models.Room, error) {
	if creatorID == targetID {
		return nil, errors.New("cannot start a DM with yourself")
	}

	if _, err := s.GetUserByID(creatorID); err != nil {
		return nil, err
	}
	if _, err := s.GetUserByID(targetID); err != nil {
		return nil, err
	}

	// Дедуплікація: dm з рівно цими двома учасниками.
	var existing models.Room
	err := s.DB.
		Where("type = ?", models.RoomTypeDm).
		Where("member_ids @> ARRAY[?,?]::text[]", creatorID, targetID).
		Where("cardinality(member_ids) = 2").
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := &models.Room{
		Type:      models.RoomTypeDm,
		CreatedBy: creatorID,
		MemberIDs: []string{creatorID, targetID},
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		now := time.Now()
		members := []models.RoomMember{
			{RoomID: room.RoomID, UserID: creatorID, Role: models.RoleMember, JoinedAt: now},
			{RoomID: room.RoomID, UserID: targetID, Role: models.RoleMember, JoinedAt: now},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// CreateGroupRoom створює групову кімнату. Творець стає адміністратором,
// решта — учасниками; у кімнаті завжди щонайменше два учасники.
func (s *Service) CreateGroupRoom(creatorID, name string, memberIDs []string) (*models.Room, error) {
	if name == "" {
		return nil, errors.New("group name is required")
	}

	// Унікальні учасники, включно з творцем.
	unique := []string{creatorID}
	seen := map[string]bool{creatorID: true}
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) < 2 {
		return nil, errors.New("group must have at least 2 members")
	}

	for _, id := range unique {
		if _, err := s.GetUserByID(id); err != nil {
			return nil, err
		}
	}

	room := &models.Room{
		Name:      name,
		Type:      models.RoomTypeGroup,
		CreatedBy: creatorID,
		MemberIDs: unique,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		now := time.Now()
		members := make([]models.RoomMember, 0, len(unique))
		for _, id := range unique {
			role := models.RoleMember
			if id == creatorID {
				role = models.RoleAdmin
			}
			members = append(members, models.RoomMember{
				RoomID:   room.RoomID,
				UserID:   id,
				Role:     role,
				JoinedAt: now,
			})
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// AddMemberToRoom додає учасника до групової кімнати, оновлюючи рядок
// учасника і денормалізований member_ids в одній транзакції.
func (s *Service) AddMemberToRoom(roomID, userID string) error {
	room, err := s.GetRoomByID(roomID)
	if err != nil {
		return err
	}
	if room.Type != models.RoomTypeGroup {
		return errors.New("operation allowed only on group rooms")
	}
	if room.HasMember(userID) {
		return errors.New("user is already a member of this room")
	}
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		member := models.RoomMember{
			RoomID:   roomID,
			UserID:   userID,
			Role:     models.RoleMember,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).
			Where("room_id = ?", roomID).
			Update("member_ids", gorm.Expr("array_append(member_ids, ?)", userID)).Error
	})
}

// RemoveMemberFromRoom видаляє учасника з групової кімнати. Кімната
// ніколи не може мати менше двох учасників.
func (s *Service) RemoveMemberFromRoom(roomID, userID string) error {
	room, err := s.GetRoomByID(roomID)
	if err != nil {
		return err
	}
	if room.Type != models.RoomTypeGroup {
		return errors.New("operation allowed only on group rooms")
	}
	if !room.HasMember(userID) {
		return errors.New("user is not a member of this room")
	}
	if len(room.MemberIDs) <= 2 {
		return errors.New("room must have at least 2 members")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RoomMember{}, "room_id = ? AND user_id = ?", roomID, userID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).
			Where("room_id = ?", roomID).
			Update("member_ids", gorm.Expr("array_remove(member_ids, ?)", userID)).Error
	})
}

// GetRoomByID повертає кімнату за її ID.
func (s *Service) GetRoomByID(roomID string) (*models.Room, error) {
	var room models.Room

	err := s.DB.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// GetRoomMembers повертає рядки учасників кімнати разом з ролями.
func (s *Service) GetRoomMembers(roomID string) ([]models.RoomMember, error) {
	var members []models.RoomMember
	if err := s.DB.Where("room_id = ?", roomID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// IsRoomMember — гаряча перевірка членства, що виконується на кожну
// room-scoped подію. Йде через денормалізований member_ids, щоб не
// чіпати таблицю учасників.
func (s *Service) IsRoomMember(userID, roomID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Room{}).
		Where("room_id = ? AND member_ids @> ARRAY[?]::text[]", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

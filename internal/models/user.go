package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User представляє зареєстрованого користувача.
// Облікові дані (пароль, логін) керуються зовнішнім auth-сервісом;
// тут зберігається лише те, що потрібно ядру та сповіщенням.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"` // UUID
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	// TelegramID is the linked Telegram chat id used for offline push
	// notifications. Empty when the user has not linked Telegram.
	TelegramID string    `gorm:"index"`
	LastSeen   *time.Time
	CreatedAt  time.Time
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

package notify

import (
	"fmt"
	"log"
	"strconv"

	"connecto/backend/internal/models"
	"connecto/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramDispatcher доставляє сповіщення через Telegram-бота тим
// користувачам, які прив'язали свій чат (User.TelegramID).
type TelegramDispatcher struct {
	BotAPI  *tgbotapi.BotAPI
	Storage storage.Storage
}

// NewTelegramDispatcher створює диспетчера та авторизує бота.
func NewTelegramDispatcher(token string, s storage.Storage) (*TelegramDispatcher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &TelegramDispatcher{BotAPI: bot, Storage: s}, nil
}

// Dispatch надсилає одне сповіщення. Користувач без прив'язаного
// Telegram просто пропускається.
func (d *TelegramDispatcher) Dispatch(userID string, payload models.PushPayload) error {
	user, err := d.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.TelegramID == "" {
		return nil
	}

	chatID, err := strconv.ParseInt(user.TelegramID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id for user %s: %w", userID, err)
	}

	text := payload.Body
	if payload.RoomName != "" {
		text = fmt.Sprintf("%s: %s", payload.RoomName, payload.Body)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := d.BotAPI.Send(msg); err != nil {
		return err
	}
	return nil
}

package storage

import (
	"encoding/json"

	"connecto/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Усі екземпляри шлюзу слухають один канал; завдяки цьому порядок
// доставки в межах кімнати збігається з порядком публікації.
const broadcastChannel = "chat:events"

// PublishEvent публікує подію в Redis Pub/Sub для всіх екземплярів шлюзу.
func (s *Service) PublishEvent(event models.ServerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, broadcastChannel, data).Err()
}

// SubscribeEvents підписується на канал широкомовлення.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, broadcastChannel)
}

package chathub

import (
	"encoding/json"
	"log"

	"connecto/backend/internal/models"
)

// StartPubSubListener запускає goroutine, яка слухає Redis Pub/Sub і
// передає події в головний цикл хаба. Через цей канал проходить увесь
// room-scoped fan-out, зокрема від інших екземплярів шлюзу.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.ServerEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshalling Redis message: %v", err)
				continue
			}
			m.PubSubCh <- event
		}
	}()
}

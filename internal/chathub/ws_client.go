package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"connecto/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient реалізує інтерфейс chathub.Client
type WebSocketClient struct {
	ConnID string
	UserID string
	Conn   *websocket.Conn
	Hub    *ManagerService

	SendCh chan models.ServerEvent

	closeOnce sync.Once
	done      chan struct{}
}

// NewWebSocketClient створює клієнта для вже автентифікованого з'єднання.
func NewWebSocketClient(hub *ManagerService, connID, userID string, conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{
		ConnID: connID,
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		SendCh: make(chan models.ServerEvent, 256),
		done:   make(chan struct{}),
	}
}

// --- Реалізація методів інтерфейсу ---

func (c *WebSocketClient) GetConnID() string { return c.ConnID }
func (c *WebSocketClient) GetUserID() string { return c.UserID }

// Send ставить подію в чергу відправки. Ніколи не блокує: повільний
// клієнт отримує false і буде відключений хабом.
func (c *WebSocketClient) Send(event models.ServerEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.SendCh <- event:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Run запускає 'pumps' для WebSocket
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close зупиняє writePump. readPump зупиниться сам після Conn.Close().
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// --- Логіка 'Pump' ---

// readPump читає події з WebSocket і передає їх хабу. Події одного
// з'єднання обробляються послідовно; різні з'єднання — паралельно,
// кожне у своїй goroutine.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c // Надсилаємо команду на Unregister
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var event models.ClientEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Error decoding JSON from conn %s: %v", c.ConnID, err)
			continue // Пропускаємо невірне повідомлення
		}

		c.Hub.HandleEvent(c, event)
	}
}

// writePump читає події з каналу SendCh і записує їх у WebSocket.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event := <-c.SendCh:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(event); err != nil {
				log.Printf("Error writing to conn %s: %v", c.ConnID, err)
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			// Надсилаємо Ping для підтримки з'єднання активним
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package handler

import (
	"log"
	"net/http"

	"connecto/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket. Автентифікація
// відбувається ДО upgrade: з'єднання без валідної сесії відхиляється і
// ніколи не входить у цикл обробки подій.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	session, err := h.authenticate(c.Request)
	if err != nil {
		log.Printf("ws auth error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if session == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, uuid.New().String(), session.UserID, conn)

	// Реєстрація з'єднання в хабі та запуск pumps.
	h.Hub.RegisterCh <- client
	client.Run()
}

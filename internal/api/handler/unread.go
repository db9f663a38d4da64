package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUnreadSummary — GET /v1/unread
// Повертає кількість непрочитаних повідомлень по кімнатах користувача.
// Кімнати без непрочитаних у відповідь не входять.
func (h *Handler) GetUnreadSummary(c *gin.Context) {
	userID := currentUserID(c)

	summary, err := h.Storage.GetUnreadSummary(userID)
	if err != nil {
		log.Printf("GetUnreadSummary error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": summary})
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"connecto/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// messageResponse — JSON-форма одного повідомлення з read-метаданими.
type messageResponse struct {
	ID                string `json:"id"`
	RoomID            string `json:"roomId"`
	SenderID          string `json:"senderId"`
	Content           string `json:"content"`
	Status            string `json:"status"`
	CreatedAt         string `json:"createdAt"`
	IsReadByMe        bool   `json:"isReadByMe"`
	ReadByCount       int    `json:"readByCount"`
	IsReadByOtherUser *bool  `json:"isReadByOtherUser"`
}

// GetRoomMessages — GET /v1/rooms/:roomId/messages?before=&beforeId=&limit=
// Повертає сторінку історії кімнати з read-метаданими, найстаріші першими.
// beforeId — id повідомлення-курсора для добору повідомлень, що ділять
// граничний момент з before.
func (h *Handler) GetRoomMessages(c *gin.Context) {
	userID := currentUserID(c)

	roomID := c.Param("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	var before *time.Time
	if beforeParam := c.Query("before"); beforeParam != "" {
		if t, err := time.Parse(time.RFC3339, beforeParam); err == nil {
			before = &t
		}
	}

	var beforeID uint
	if idParam := c.Query("beforeId"); idParam != "" {
		if n, err := strconv.ParseUint(idParam, 10, 64); err == nil {
			beforeID = uint(n)
		}
	}

	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil {
			limit = n
		}
	}

	items, err := h.ReadState.GetRoomMessagesWithReadMeta(userID, roomID, before, beforeID, limit)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrNotRoomMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			log.Printf("GetRoomMessages error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	data := make([]messageResponse, 0, len(items))
	for _, item := range items {
		msg := item.Message
		data = append(data, messageResponse{
			ID:                strconv.FormatUint(uint64(msg.ID), 10),
			RoomID:            msg.RoomID,
			SenderID:          msg.SenderID,
			Content:           msg.Content,
			Status:            msg.Status,
			CreatedAt:         msg.CreatedAt.UTC().Format(time.RFC3339Nano),
			IsReadByMe:        item.IsReadByCurrentUser,
			ReadByCount:       item.ReadByCount,
			IsReadByOtherUser: item.IsReadByOtherUser,
		})
	}

	c.JSON(http.StatusOK, gin.H{"messages": data})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"villago/backend/internal/chathub"
	"villago/backend/internal/models"
	"villago/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListMessages serves paginated history for a room, newest first. Clients
// reverse the page for display and pass the oldest createdAt back as `before`
// to fetch the next page.
func (h *Handler) ListMessages(c *gin.Context) {
	roomID := c.Param("id")
	if _, err := h.Storage.GetRoomByID(roomID); err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load room"})
		return
	}

	limit := defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		limit = n
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
			return
		}
		before = &t
	}

	messages, err := h.Storage.ListMessages(roomID, limit, before)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	out := make([]models.NewMessagePayload, 0, len(messages))
	for _, m := range messages {
		out = append(out, models.NewMessagePayload{
			ID:        m.ID,
			Content:   m.Content,
			UserID:    m.UserID,
			Nickname:  m.User.Nickname,
			CreatedAt: m.CreatedAt,
			IsSystem:  m.IsSystem,
		})
	}

	c.JSON(http.StatusOK, gin.H{"messages": out})
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostMessage is the batch submission path. It goes through the same
// broadcaster as the socket path, so validation and fan-out are identical:
// connected room members see REST-submitted messages live.
func (h *Handler) PostMessage(c *gin.Context) {
	userID, _, ok := h.bearerIdentity(c)
	if !ok {
		return
	}

	roomID := c.Param("id")
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	msg, err := h.Gateway.Broadcaster.SendMessage(roomID, userID, req.Content)
	switch {
	case errors.Is(err, chathub.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chathub.ErrBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save message"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": msg})
	}
}

package handler

import (
	"log"
	"net/http"

	"villago/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type roomResponse struct {
	models.ChatRoom
	OnlineCount int `json:"onlineCount"`
}

// ListRooms returns active rooms with their cached live member counts.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Storage.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rooms"})
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		count, err := h.Storage.GetOnlineCount(room.RoomID)
		if err != nil {
			log.Printf("WARNING: Failed to read online count for room %s: %v", room.RoomID, err)
		}
		out = append(out, roomResponse{ChatRoom: room, OnlineCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

type createRoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// CreateRoom adds a new chat room; the realtime core picks it up with no
// restart since it only ever references rooms by id.
func (h *Handler) CreateRoom(c *gin.Context) {
	if _, _, ok := h.bearerIdentity(c); !ok {
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	room := &models.ChatRoom{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Tags:        pq.StringArray(req.Tags),
		IsActive:    true,
	}
	if err := h.Storage.SaveRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room})
}

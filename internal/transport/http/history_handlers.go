package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatrelay-server/internal/service/history"
)

// HistoryHandlers provides HTTP handlers for history queries.
type HistoryHandlers struct {
	history *history.Service
	log     *zerolog.Logger
}

// NewHistoryHandlers creates a new history handlers instance.
func NewHistoryHandlers(svc *history.Service, logger *zerolog.Logger) *HistoryHandlers {
	return &HistoryHandlers{
		history: svc,
		log:     logger,
	}
}

// MessageResponse represents one history record in API responses.
type MessageResponse struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// GetHistory handles history queries. A room with no messages yields an empty
// list, never an error.
// GET /history/:room
func (h *HistoryHandlers) GetHistory(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	entries, err := h.history.History(c.Request.Context(), room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to load history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, MessageResponse{
			Sender:    entry.Sender,
			Message:   entry.Message,
			Timestamp: entry.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, response)
}

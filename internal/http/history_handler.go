package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-relay/internal/service"
)

// HistoryHandler expone la lectura del historial por clientId.
type HistoryHandler struct {
	logger  *zap.Logger
	history *service.HistoryService
}

func NewHistoryHandler(logger *zap.Logger, history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		logger:  logger,
		history: history,
	}
}

// GetHistory maneja GET /api/history?clientId=<id>.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	clientID := c.Query("clientId")
	if strings.TrimSpace(clientID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId is required"})
		return
	}

	records, err := h.history.List(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Error("load history failed", zap.String("client_id", clientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, records)
}

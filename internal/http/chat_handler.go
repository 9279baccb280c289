package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
	"chat-relay/internal/service"
	"chat-relay/internal/sse"
)

// ClientIDHeader devuelve al cliente el identificador efectivo del request.
const ClientIDHeader = "X-Client-Id"

// ChatHandler mantiene dependencias para el endpoint de chat.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chat:   chat,
	}
}

// Chat maneja POST /api/chat y responde con un stream SSE.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if !domain.ValidateConversation(req.Messages) {
		h.logger.Warn("invalid chat request", zap.Int("messages", len(req.Messages)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	clientID := service.ResolveClientID(req.ClientID)
	c.Header(ClientIDHeader, clientID)

	ctx := c.Request.Context()
	started := false
	startStream := func() {
		if started {
			return
		}
		started = true
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)
	}

	res, err := h.chat.Relay(ctx, clientID, req.Messages, func(fragment string) error {
		startStream()
		if err := sse.WriteContent(c.Writer, fragment); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})

	switch {
	case err == nil:
		startStream()
		if werr := sse.WriteDone(c.Writer); werr != nil {
			h.logger.Warn("write done sentinel failed", zap.String("client_id", clientID), zap.Error(werr))
			return
		}
		c.Writer.Flush()
		fields := []zap.Field{
			zap.String("client_id", clientID),
			zap.Int("fragments", res.Fragments),
			zap.Int("response_len", len(res.Response)),
		}
		if res.Record != nil {
			fields = append(fields, zap.String("record_id", res.Record.ID))
		}
		h.logger.Info("chat completed", fields...)

	case errors.Is(err, service.ErrChatInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})

	case ctx.Err() != nil && !started:
		h.logger.Info("client disconnected before first fragment", zap.String("client_id", clientID), zap.Error(err))

	case !started:
		h.logger.Error("upstream request failed", zap.String("client_id", clientID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})

	default:
		h.logger.Error("chat stream interrupted",
			zap.String("client_id", clientID),
			zap.Int("fragments", res.Fragments),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return
		}
		if werr := sse.WriteJSON(c.Writer, sse.ErrorPayload{Error: "upstream stream interrupted"}); werr == nil {
			c.Writer.Flush()
		}
	}
}

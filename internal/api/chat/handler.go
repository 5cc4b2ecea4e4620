package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/closedrag/internal/domain"
	"github.com/liliang-cn/closedrag/internal/metrics"
	"github.com/liliang-cn/closedrag/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/chat", h.Chat)
}

// Chat answers a single message with retrieved context
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: domain.ErrInvalidJSON.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			metrics.ChatRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: err.Error()})
			return
		}
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeError).Inc()
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error()})
		return
	}

	metrics.ChatRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	c.JSON(http.StatusOK, resp)
}

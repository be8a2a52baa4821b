package handlers

import (
	"context"
	"net/http"
	"strings"

	"slotbook/middleware"
	"slotbook/models"
	ai "slotbook/services/intelligence"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Assistant runs one conversational turn.
type Assistant interface {
	Handle(ctx context.Context, turn ai.Turn) (*models.AIResponse, error)
}

type AssistantHandler struct {
	Assistant Assistant
	FAQ       ai.FAQResponder
	Logger    *zap.Logger
}

func NewAssistantHandler(assistant Assistant, faq ai.FAQResponder, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{Assistant: assistant, FAQ: faq, Logger: logger}
}

// HandleAssistant serves POST /api/assistant. Login is optional; the caller's
// identity is only needed to confirm a booking.
func (h *AssistantHandler) HandleAssistant(c *gin.Context) {
	var req models.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Text()) == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "message is required")
		return
	}

	resp, err := h.Assistant.Handle(c.Request.Context(), ai.Turn{
		SessionID: req.SessionID,
		Text:      req.Text(),
		Identity:  middleware.IdentityFrom(c),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Debug("Assistant turn handled",
		zap.String("sessionID", resp.SessionID),
		zap.String("phase", string(resp.Phase)))
	c.JSON(http.StatusOK, resp)
}

// HandleFAQ serves POST /api/faq.
func (h *AssistantHandler) HandleFAQ(c *gin.Context) {
	var req models.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = strings.TrimSpace(req.Query)
	}
	if question == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "question is required")
		return
	}

	answer, err := h.FAQ.Answer(c.Request.Context(), question)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ecostudy/internal/models"
	"ecostudy/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidLimit = "limit must be a non-negative integer"
	errChatFailed   = "failed to save chat"
	errHistory      = "failed to load history"
)

type chatRequest struct {
	Question string `json:"question" example:"What is a kinked demand curve?"`
	// text (default) or audio
	Type string `json:"type,omitempty" example:"text"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// @Summary      Ask the tutor
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input  body      chatRequest  true  "question"
// @Success      200    {object}  chatResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/chat [post]
func (h *Handler) askChat(c *gin.Context) {
	var input chatRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	kind, err := models.ParseChatKind(input.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.services.Ask(c.Request.Context(), userID(c), input.Question, kind)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errChatFailed, "chat_persist_failed", err, "user_id", userID(c))
		return
	}

	c.JSON(http.StatusOK, chatResponse{Answer: chat.Answer})
}

// @Summary      Chat history
// @Description  Newest first. limit is optional; 0 or absent returns everything.
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "maximum number of chats"
// @Success      200    {array}   models.Chat
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/chat/history [get]
func (h *Handler) chatHistory(c *gin.Context) {
	limit, ok := parseLimit(c.Query("limit"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return
	}

	chats, err := h.services.History(c.Request.Context(), userID(c), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errHistory, "chat_history_failed", err, "user_id", userID(c))
		return
	}
	c.JSON(http.StatusOK, chats)
}

// parseLimit accepts "" (no limit) or a non-negative integer.
func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

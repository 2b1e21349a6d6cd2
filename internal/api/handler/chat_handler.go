package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/altscore/credit-system/internal/core/ports"
)

// ChatHandler exposes the conversational surface: send a message, read the
// transcript, clear it.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Query string `json:"query" validate:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type chatHistoryResponse struct {
	ChatHistory []ports.TranscriptEntry `json:"chat_history"`
}

// Send handles POST /chat/chat-with-agent.
func (h *ChatHandler) Send(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	reply, err := h.chat.Send(c.Request().Context(), req.Query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Response: reply})
}

// History handles GET /chat/get-agent-response.
func (h *ChatHandler) History(c echo.Context) error {
	entries, err := h.chat.History(c.Request().Context())
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []ports.TranscriptEntry{}
	}
	return c.JSON(http.StatusOK, chatHistoryResponse{ChatHistory: entries})
}

// Status handles GET /chat/check-status.
func (h *ChatHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Agent is active"})
}

// Clear handles DELETE /chat/clear-chat.
func (h *ChatHandler) Clear(c echo.Context) error {
	if err := h.chat.Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "Chat log cleared"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AgentHandler holds the agent-management endpoints. Management of multiple
// agents is not implemented; these are acknowledgement stubs kept for
// frontend compatibility.
type AgentHandler struct{}

func NewAgentHandler() *AgentHandler {
	return &AgentHandler{}
}

func (h *AgentHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Test successful"})
}

func (h *AgentHandler) Create(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Agent created"})
}

func (h *AgentHandler) SetDomain(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Agent domain set"})
}

func (h *AgentHandler) Rename(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Agent renamed"})
}

func (h *AgentHandler) Delete(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Agent deleted"})
}

func (h *AgentHandler) AttachTool(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Tool attached to agent"})
}

func (h *AgentHandler) AttachKnowledgebase(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Knowledgebase attached to agent"})
}

func (h *AgentHandler) ListKnowledgebases(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"knowledgebases": {"kb1", "kb2"}})
}

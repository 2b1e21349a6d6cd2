package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/altscore/credit-system/internal/core/ports"
)

// QueryHandler exposes the scoring pipeline's single inbound operation.
type QueryHandler struct {
	queries ports.QueryService
}

func NewQueryHandler(queries ports.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

type processRequest struct {
	Query string `json:"query" validate:"required"`
}

type processResponse struct {
	Result string `json:"result"`
}

// Process handles POST /process.
//
// @Summary      Route a free-text query through the credit scoring agent
// @Tags         queries
// @Accept       json
// @Produce      json
// @Param        body  body      processRequest  true  "Free-text query"
// @Success      200   {object}  processResponse
// @Failure      400   {object}  map[string]string
// @Router       /process [post]
func (h *QueryHandler) Process(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// The query service never fails; every internal error is already
	// rendered as an explanatory string.
	result := h.queries.Process(c.Request().Context(), req.Query)
	return c.JSON(http.StatusOK, processResponse{Result: result})
}

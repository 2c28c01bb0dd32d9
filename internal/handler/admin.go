package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
)

// AdminHandler handles moderation overrides.
type AdminHandler struct {
	moderation ModerationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(moderation ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

type reinstateRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// Reinstate handles POST /admin/jobs/:id/reinstate.
func (h *AdminHandler) Reinstate(c echo.Context) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	claims, ok := GetClaims(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	var req reinstateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	t, err := h.moderation.Reinstate(c.Request().Context(), jobID, claims.UserID, req.Note)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, t)
}

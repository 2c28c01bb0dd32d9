package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
)

// ApplicationHandler handles applying to postings and reviewing applications.
type ApplicationHandler struct {
	apps ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(apps ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

type applyRequest struct {
	UserID idRef `json:"userId" validate:"required,gt=0"`
}

type applyResponse struct {
	Message     string              `json:"message"`
	Application *domain.Application `json:"application"`
}

// Apply handles POST /jobs/:id/apply.
func (h *ApplicationHandler) Apply(c echo.Context) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	app, err := h.apps.Apply(c.Request().Context(), jobID, int64(req.UserID))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, applyResponse{
		Message:     "Application submitted successfully",
		Application: app,
	})
}

// Check handles GET /jobs/:id/application/:userId.
func (h *ApplicationHandler) Check(c echo.Context) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	check, err := h.apps.Check(c.Request().Context(), jobID, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, check)
}

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// UpdateStatus handles PATCH /jobs/:id/applications/:userId.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		return err
	}

	app, err := h.apps.UpdateStatus(c.Request().Context(), jobID, userID, status)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, app)
}

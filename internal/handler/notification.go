package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// NotificationHandler handles inbox endpoints.
type NotificationHandler struct {
	notifications NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications/:userId.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	list, err := h.notifications.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSONList(c, http.StatusOK, list, len(list))
}

type markReadResponse struct {
	ID   int64 `json:"id"`
	Read bool  `json:"read"`
}

// MarkRead handles PUT /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), id); err != nil {
		return err
	}
	return JSON(c, http.StatusOK, markReadResponse{ID: id, Read: true})
}

type notifyRequest struct {
	JobID  idRef `json:"jobId" validate:"required,gt=0"`
	UserID idRef `json:"userId" validate:"required,gt=0"`
}

type notifyResponse struct {
	NotificationID int64 `json:"notification_id"`
}

// NotifyNewJob handles POST /notifications/new-job.
func (h *NotificationHandler) NotifyNewJob(c echo.Context) error {
	var req notifyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id, err := h.notifications.NotifyUser(c.Request().Context(), int64(req.JobID), int64(req.UserID))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, notifyResponse{NotificationID: id})
}

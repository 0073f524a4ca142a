package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
	"github.com/edupanel/edupanel-go/pkg/storage"
)

// NotificationHandler exposes notification CRUD endpoints.
type NotificationHandler struct {
	service *service.NotificationService
	uploads *storage.LocalStorage
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(svc *service.NotificationService, uploads *storage.LocalStorage) *NotificationHandler {
	return &NotificationHandler{service: svc, uploads: uploads}
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"notifications": notifications})
}

// Create godoc
// @Summary Send a notification
// @Tags Notifications
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /admin/notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	input, err := h.bindInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	notification, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"notification": notification, "message": "Notification sent successfully"})
}

// Update godoc
// @Summary Update a notification
// @Tags Notifications
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/notifications/{id} [put]
func (h *NotificationHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	input, err := h.bindInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	notification, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"notification": notification, "message": "Notification updated successfully"})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Notification marked as read")
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Notification deleted successfully")
}

func (h *NotificationHandler) bindInput(c *gin.Context) (service.NotificationInput, error) {
	input := service.NotificationInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		RecipientType: models.RecipientType(c.PostForm("recipient_type")),
	}
	if classID, err := strconv.ParseInt(c.PostForm("class_id"), 10, 64); err == nil {
		input.ClassID = classID
	}
	if message := c.PostForm("message"); message != "" {
		input.Message = &message
	}

	// the portal sends the selection as a JSON array string
	if raw := c.PostForm("selected_students"); raw != "" {
		var ids models.StudentIDList
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return input, appErrors.Clone(appErrors.ErrValidation, "Invalid selected students payload")
		}
		input.SelectedStudents = ids
	}

	if file := formFile(c, "notificationFile"); file != nil {
		src, err := file.Open()
		if err != nil {
			return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read attachment")
		}
		defer src.Close()
		path, err := h.uploads.SaveUpload("notifications", file.Filename, src)
		if err != nil {
			return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
		}
		input.FilePath = &path
	}
	return input, nil
}

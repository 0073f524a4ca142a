package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/edupanel/edupanel-go/internal/models"
)

// NotificationInput is the payload for sending or updating a notification.
type NotificationInput struct {
	ClassID          int64
	Title            string
	Description      string
	Message          string
	RecipientType    models.RecipientType
	SelectedStudents []int64
	File             *FileInput
}

// Notifications fetches all notifications with their class names.
func (c *Client) Notifications(ctx context.Context) ([]models.NotificationDetail, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/notifications", nil, "Failed to fetch notifications")
	if err != nil {
		return nil, err
	}
	var notifications []models.NotificationDetail
	if err := env.decode("notifications", &notifications); err != nil {
		return nil, serverErr("", "Failed to fetch notifications")
	}
	return notifications, nil
}

// SendNotification creates a notification. Particular targeting requires a
// non-empty selection; the check runs locally before any request is sent.
func (c *Client) SendNotification(ctx context.Context, input NotificationInput) (*models.Notification, error) {
	if err := validateNotification(input); err != nil {
		return nil, err
	}
	fields, files, err := notificationForm(input)
	if err != nil {
		return nil, err
	}
	env, err := c.doMultipart(ctx, http.MethodPost, "/api/admin/notifications", fields, files, "Failed to send notification")
	if err != nil {
		return nil, err
	}
	var notification models.Notification
	if err := env.decode("notification", &notification); err != nil {
		return nil, serverErr("", "Failed to send notification")
	}
	return &notification, nil
}

// UpdateNotification updates a notification; a nil File keeps the stored one.
func (c *Client) UpdateNotification(ctx context.Context, id int64, input NotificationInput) (*models.Notification, error) {
	if id <= 0 {
		return nil, validationErr("Invalid notification")
	}
	if err := validateNotification(input); err != nil {
		return nil, err
	}
	fields, files, err := notificationForm(input)
	if err != nil {
		return nil, err
	}
	env, err := c.doMultipart(ctx, http.MethodPut, fmt.Sprintf("/api/admin/notifications/%d", id), fields, files, "Failed to update notification")
	if err != nil {
		return nil, err
	}
	var notification models.Notification
	if err := env.decode("notification", &notification); err != nil {
		return nil, serverErr("", "Failed to update notification")
	}
	return &notification, nil
}

// MarkNotificationRead flags a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationErr("Invalid notification")
	}
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/admin/notifications/%d/read", id), nil, "Failed to update notification")
	return err
}

// DeleteNotification removes a notification by ID.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationErr("Invalid notification")
	}
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/notifications/%d", id), nil, "Failed to delete notification")
	return err
}

func validateNotification(input NotificationInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" || input.ClassID <= 0 {
		return validationErr("Class, title and description are required")
	}
	if input.RecipientType == models.RecipientParticular && len(input.SelectedStudents) == 0 {
		return validationErr("Please select at least one student")
	}
	return nil
}

func notificationForm(input NotificationInput) (map[string]string, []filePart, error) {
	fields := map[string]string{
		"class_id":       strconv.FormatInt(input.ClassID, 10),
		"title":          input.Title,
		"description":    input.Description,
		"message":        input.Message,
		"recipient_type": string(input.RecipientType),
	}
	if input.RecipientType == models.RecipientParticular {
		raw, err := json.Marshal(input.SelectedStudents)
		if err != nil {
			return nil, nil, validationErr("failed to encode request")
		}
		fields["selected_students"] = string(raw)
	}
	var files []filePart
	if input.File != nil {
		files = append(files, filePart{field: "notificationFile", filename: input.File.Filename, reader: input.File.Reader})
	}
	return fields, files, nil
}

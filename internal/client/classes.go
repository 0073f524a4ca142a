package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/edupanel/edupanel-go/internal/models"
)

// ClassInput is the payload for adding a class.
type ClassInput struct {
	ClassName   string `json:"class_name"`
	SectionID   int64  `json:"section_id"`
	TeacherName string `json:"teacher_name"`
}

// Classes fetches all classes with their section names.
func (c *Client) Classes(ctx context.Context) ([]models.ClassDetail, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/classes", nil, "Failed to fetch classes")
	if err != nil {
		return nil, err
	}
	var classes []models.ClassDetail
	if err := env.decode("classes", &classes); err != nil {
		return nil, serverErr("", "Failed to fetch classes")
	}
	return classes, nil
}

// AddClass creates a class after local field checks.
func (c *Client) AddClass(ctx context.Context, input ClassInput) (*models.Class, error) {
	input.ClassName = strings.TrimSpace(input.ClassName)
	input.TeacherName = strings.TrimSpace(input.TeacherName)
	if input.ClassName == "" || input.TeacherName == "" || input.SectionID <= 0 {
		return nil, validationErr("All fields are required")
	}

	env, err := c.doJSON(ctx, http.MethodPost, "/api/admin/classes", input, "Failed to add class")
	if err != nil {
		return nil, err
	}
	var class models.Class
	if err := env.decode("class", &class); err != nil {
		return nil, serverErr("", "Failed to add class")
	}
	return &class, nil
}

// DeleteClass removes a class by ID.
func (c *Client) DeleteClass(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationErr("Invalid class")
	}
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/classes/%d", id), nil, "Failed to delete class")
	return err
}

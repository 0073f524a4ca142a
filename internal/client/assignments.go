package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/edupanel/edupanel-go/internal/models"
)

// AssignmentInput is the payload for creating or updating an assignment.
type AssignmentInput struct {
	Title       string
	Description string
	ClassID     int64
	DueDate     string
	File        *FileInput
}

// Assignments fetches all assignments with their class names.
func (c *Client) Assignments(ctx context.Context) ([]models.AssignmentDetail, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/assignments", nil, "Failed to fetch assignments")
	if err != nil {
		return nil, err
	}
	var assignments []models.AssignmentDetail
	if err := env.decode("assignments", &assignments); err != nil {
		return nil, serverErr("", "Failed to fetch assignments")
	}
	return assignments, nil
}

// AddAssignment creates an assignment, optionally with an attachment.
func (c *Client) AddAssignment(ctx context.Context, input AssignmentInput) (*models.Assignment, error) {
	if err := validateAssignment(input); err != nil {
		return nil, err
	}
	env, err := c.doMultipart(ctx, http.MethodPost, "/api/admin/assignments", assignmentFields(input), assignmentFiles(input), "Failed to add assignment")
	if err != nil {
		return nil, err
	}
	var assignment models.Assignment
	if err := env.decode("assignment", &assignment); err != nil {
		return nil, serverErr("", "Failed to add assignment")
	}
	return &assignment, nil
}

// UpdateAssignment updates an assignment; a nil File keeps the stored one.
func (c *Client) UpdateAssignment(ctx context.Context, id int64, input AssignmentInput) (*models.Assignment, error) {
	if id <= 0 {
		return nil, validationErr("Invalid assignment")
	}
	if err := validateAssignment(input); err != nil {
		return nil, err
	}
	env, err := c.doMultipart(ctx, http.MethodPut, fmt.Sprintf("/api/admin/assignments/%d", id), assignmentFields(input), assignmentFiles(input), "Failed to update assignment")
	if err != nil {
		return nil, err
	}
	var assignment models.Assignment
	if err := env.decode("assignment", &assignment); err != nil {
		return nil, serverErr("", "Failed to update assignment")
	}
	return &assignment, nil
}

// DeleteAssignment removes an assignment by ID.
func (c *Client) DeleteAssignment(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationErr("Invalid assignment")
	}
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/assignments/%d", id), nil, "Failed to delete assignment")
	return err
}

func validateAssignment(input AssignmentInput) error {
	if strings.TrimSpace(input.Title) == "" || input.ClassID <= 0 || input.DueDate == "" {
		return validationErr("Title, class and due date are required")
	}
	return nil
}

func assignmentFields(input AssignmentInput) map[string]string {
	return map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"class_id":    strconv.FormatInt(input.ClassID, 10),
		"due_date":    input.DueDate,
	}
}

func assignmentFiles(input AssignmentInput) []filePart {
	if input.File == nil {
		return nil
	}
	return []filePart{{field: "assignmentFile", filename: input.File.Filename, reader: input.File.Reader}}
}

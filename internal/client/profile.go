package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edupanel/edupanel-go/internal/models"
)

// Profile fetches the student profile linked to a user account.
func (c *Client) Profile(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	if userID <= 0 {
		return nil, validationErr("Invalid user")
	}
	env, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/student/profile/%d", userID), nil, "Failed to fetch profile")
	if err != nil {
		return nil, err
	}
	var profile models.StudentDetail
	if err := env.decode("profile", &profile); err != nil {
		return nil, serverErr("", "Failed to fetch profile")
	}
	return &profile, nil
}

// UpdateProfile updates the student profile linked to a user account.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, input StudentInput) (*models.Student, error) {
	if userID <= 0 {
		return nil, validationErr("Invalid user")
	}
	var files []filePart
	if input.Photo != nil {
		files = append(files, filePart{field: "photo", filename: input.Photo.Filename, reader: input.Photo.Reader})
	}
	env, err := c.doMultipart(ctx, http.MethodPut, fmt.Sprintf("/api/student/profile/%d", userID), input.formFields(false), files, "Failed to update profile")
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := env.decode("profile", &student); err != nil {
		return nil, serverErr("", "Failed to update profile")
	}
	return &student, nil
}

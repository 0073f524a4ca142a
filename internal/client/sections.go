package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edupanel/edupanel-go/internal/models"
)

// SectionInput is the payload for adding a section.
type SectionInput struct {
	SectionName string `json:"section_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Sections fetches all sections.
func (c *Client) Sections(ctx context.Context) ([]models.Section, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/sections", nil, "Failed to fetch sections")
	if err != nil {
		return nil, err
	}
	var sections []models.Section
	if err := env.decode("sections", &sections); err != nil {
		return nil, serverErr("", "Failed to fetch sections")
	}
	return sections, nil
}

// AddSection validates the time window locally, then creates the section.
func (c *Client) AddSection(ctx context.Context, input SectionInput) (*models.Section, error) {
	input.SectionName = strings.TrimSpace(input.SectionName)
	if input.SectionName == "" || input.StartTime == "" || input.EndTime == "" {
		return nil, validationErr("All fields are required")
	}
	start, err := time.Parse("15:04", input.StartTime)
	if err != nil {
		return nil, validationErr("Start time must use HH:MM format")
	}
	end, err := time.Parse("15:04", input.EndTime)
	if err != nil {
		return nil, validationErr("End time must use HH:MM format")
	}
	if !end.After(start) {
		return nil, validationErr("End time must be after start time")
	}

	env, err := c.doJSON(ctx, http.MethodPost, "/api/admin/sections", input, "Failed to add section")
	if err != nil {
		return nil, err
	}
	var section models.Section
	if err := env.decode("section", &section); err != nil {
		return nil, serverErr("", "Failed to add section")
	}
	return &section, nil
}

// DeleteSection removes a section by ID.
func (c *Client) DeleteSection(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationErr("Invalid section")
	}
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/sections/%d", id), nil, "Failed to delete section")
	return err
}

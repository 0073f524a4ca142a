package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/edupanel/edupanel-go/internal/models"
)

// FileInput attaches an upload to a request.
type FileInput struct {
	Filename string
	Reader   io.Reader
}

// StudentInput is the payload for enrolling or updating a student. Username
// is only used on enrollment; on updates a blank Password keeps the current
// one unchanged.
type StudentInput struct {
	FirstName   string
	LastName    string
	RollNumber  string
	ClassID     int64
	Username    string
	Password    string
	Email       string
	Phone       string
	Address     string
	DateOfBirth string
	BloodGroup  string
	ParentName  string
	ParentPhone string
	ParentEmail string
	Photo       *FileInput
}

func (in StudentInput) formFields(includeCredentials bool) map[string]string {
	fields := map[string]string{
		"first_name":    in.FirstName,
		"last_name":     in.LastName,
		"roll_number":   in.RollNumber,
		"class_id":      strconv.FormatInt(in.ClassID, 10),
		"email":         in.Email,
		"phone":         in.Phone,
		"address":       in.Address,
		"date_of_birth": in.DateOfBirth,
		"blood_group":   in.BloodGroup,
		"parent_name":   in.ParentName,
		"parent_phone":  in.ParentPhone,
		"parent_email":  in.ParentEmail,
	}
	if includeCredentials {
		fields["username"] = in.Username
		fields["password"] = in.Password
	} else if in.Password != "" {
		fields["password"] = in.Password
	}
	return fields
}

// Students fetches all students.
func (c *Client) Students(ctx context.Context) ([]models.StudentDetail, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/admin/students", nil, "Failed to fetch students")
	if err != nil {
		return nil, err
	}
	var students []models.StudentDetail
	if err := env.decode("students", &students); err != nil {
		return nil, serverErr("", "Failed to fetch students")
	}
	return students, nil
}

// StudentsByClass fetches the roster of one class.
func (c *Client) StudentsByClass(ctx context.Context, classID int64) ([]models.StudentDetail, error) {
	if classID <= 0 {
		return nil, validationErr("Invalid class")
	}
	env, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/admin/students/class/%d", classID), nil, "Failed to fetch students")
	if err != nil {
		return nil, err
	}
	var students []models.StudentDetail
	if err := env.decode("students", &students); err != nil {
		return nil, serverErr("", "Failed to fetch students")
	}
	return students, nil
}

// AddStudent enrolls a student, optionally with a photo.
func (c *Client) AddStudent(ctx context.Context, input StudentInput) (*models.Student, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.RollNumber) == "" || input.ClassID <= 0 ||
		strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, validationErr("Please fill in all required fields")
	}

	var files []filePart
	if input.Photo != nil {
		files = append(files, filePart{field: "photo", filename: input.Photo.Filename, reader: input.Photo.Reader})
	}
	env, err := c.doMultipart(ctx, http.MethodPost, "/api/admin/students", input.formFields(true), files, "Failed to add student")
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := env.decode("student", &student); err != nil {
		return nil, serverErr("", "Failed to add student")
	}
	return &student, nil
}

// UpdateStudent updates a student's profile, optionally replacing the photo.
func (c *Client) UpdateStudent(ctx context.Context, id int64, input StudentInput) (*models.Student, error) {
	if id <= 0 {
		return nil, validationErr("Invalid student")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.RollNumber) == "" || input.ClassID <= 0 {
		return nil, validationErr("Please fill in all required fields")
	}

	var files []filePart
	if input.Photo != nil {
		files = append(files, filePart{field: "photo", filename: input.Photo.Filename, reader: input.Photo.Reader})
	}
	env, err := c.doMultipart(ctx, http.MethodPut, fmt.Sprintf("/api/admin/students/%d", id), input.formFields(false), files, "Failed to update student")
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := env.decode("student", &student); err != nil {
		return nil, serverErr("", "Failed to update student")
	}
	return &student, nil
}

// DeleteStudent removes a student by ID.
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationErr("Invalid student")
	}
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/students/%d", id), nil, "Failed to delete student")
	return err
}

// BulkUpload imports students from an Excel file and returns the server's
// authoritative counts.
func (c *Client) BulkUpload(ctx context.Context, file FileInput) (*models.ImportReport, error) {
	if file.Reader == nil || file.Filename == "" {
		return nil, validationErr("Please select a file first")
	}
	env, err := c.doMultipart(ctx, http.MethodPost, "/api/admin/students/bulk-upload", nil,
		[]filePart{{field: "excelFile", filename: file.Filename, reader: file.Reader}},
		"Failed to import students")
	if err != nil {
		return nil, err
	}
	return decodeImportReport(env)
}

// BulkUploadZip imports students plus photos from a ZIP archive.
func (c *Client) BulkUploadZip(ctx context.Context, file FileInput) (*models.ImportReport, error) {
	if file.Reader == nil || file.Filename == "" {
		return nil, validationErr("Please select a file first")
	}
	env, err := c.doMultipart(ctx, http.MethodPost, "/api/admin/students/bulk-upload-zip", nil,
		[]filePart{{field: "zipFile", filename: file.Filename, reader: file.Reader}},
		"Failed to import students")
	if err != nil {
		return nil, err
	}
	return decodeImportReport(env)
}

// ExportRoster downloads a class roster in the requested format ("csv" or
// "pdf").
func (c *Client) ExportRoster(ctx context.Context, classID int64, format string) ([]byte, error) {
	if classID <= 0 {
		return nil, validationErr("Invalid class")
	}
	params := url.Values{}
	if format != "" {
		params.Set("format", format)
	}
	return c.download(ctx, queryPath(fmt.Sprintf("/api/admin/students/export/%d", classID), params), "Failed to export roster")
}

func decodeImportReport(env envelope) (*models.ImportReport, error) {
	report := &models.ImportReport{}
	if err := env.decode("data", report); err != nil {
		return nil, serverErr("", "Failed to import students")
	}
	return report, nil
}

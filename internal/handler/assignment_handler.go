package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
	"github.com/edupanel/edupanel-go/pkg/storage"
)

// AssignmentHandler exposes assignment CRUD endpoints.
type AssignmentHandler struct {
	service *service.AssignmentService
	uploads *storage.LocalStorage
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService, uploads *storage.LocalStorage) *AssignmentHandler {
	return &AssignmentHandler{service: svc, uploads: uploads}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignments": assignments})
}

// Create godoc
// @Summary Add an assignment
// @Tags Assignments
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /admin/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	input, err := h.bindInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"assignment": assignment, "message": "Assignment added successfully"})
}

// Update godoc
// @Summary Update an assignment
// @Tags Assignments
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
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
	assignment, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"assignment": assignment, "message": "Assignment updated successfully"})
}

// Delete godoc
// @Summary Delete an assignment
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Assignment deleted successfully")
}

func (h *AssignmentHandler) bindInput(c *gin.Context) (service.AssignmentInput, error) {
	input := service.AssignmentInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		DueDate:     c.PostForm("due_date"),
	}
	if classID, err := strconv.ParseInt(c.PostForm("class_id"), 10, 64); err == nil {
		input.ClassID = classID
	}

	if file := formFile(c, "assignmentFile"); file != nil {
		src, err := file.Open()
		if err != nil {
			return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read attachment")
		}
		defer src.Close()
		path, err := h.uploads.SaveUpload("assignments", file.Filename, src)
		if err != nil {
			return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
		}
		input.FilePath = &path
	}
	return input, nil
}

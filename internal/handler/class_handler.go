package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
)

// ClassHandler exposes class CRUD endpoints.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes with their section names
// @Tags Classes
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"classes": classes})
}

// Create godoc
// @Summary Add a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassInput true "Class payload"
// @Success 201 {object} map[string]interface{}
// @Router /admin/classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var input service.CreateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"class": class, "message": "Class added successfully"})
}

// Delete godoc
// @Summary Delete a class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Class deleted successfully")
}

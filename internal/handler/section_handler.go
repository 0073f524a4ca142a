package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
)

// SectionHandler exposes section CRUD endpoints.
type SectionHandler struct {
	service *service.SectionService
}

// NewSectionHandler constructs a section handler.
func NewSectionHandler(svc *service.SectionService) *SectionHandler {
	return &SectionHandler{service: svc}
}

// List godoc
// @Summary List sections
// @Tags Sections
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	sections, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"sections": sections})
}

// Create godoc
// @Summary Add a section
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body service.CreateSectionInput true "Section payload"
// @Success 201 {object} map[string]interface{}
// @Router /admin/sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var input service.CreateSectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	section, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"section": section, "message": "Section added successfully"})
}

// Delete godoc
// @Summary Delete a section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Section deleted successfully")
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
)

// AuthHandler exposes login endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"token": result.Token, "user": result.User})
}

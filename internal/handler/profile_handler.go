package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/middleware"
	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
	"github.com/edupanel/edupanel-go/pkg/storage"
)

// ProfileHandler exposes the student self-service profile endpoints.
type ProfileHandler struct {
	service *service.StudentService
	uploads *storage.LocalStorage
}

// NewProfileHandler constructs a profile handler.
func NewProfileHandler(svc *service.StudentService, uploads *storage.LocalStorage) *ProfileHandler {
	return &ProfileHandler{service: svc, uploads: uploads}
}

// Get godoc
// @Summary Fetch the profile linked to a user account
// @Tags Profile
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /student/profile/{userId} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if !mayAccessProfile(c, userID) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Access denied"))
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"profile": profile})
}

// Update godoc
// @Summary Update the profile linked to a user account
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /student/profile/{userId} [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if !mayAccessProfile(c, userID) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Access denied"))
		return
	}

	input := service.UpdateStudentInput{
		FirstName:   c.PostForm("first_name"),
		LastName:    c.PostForm("last_name"),
		RollNumber:  c.PostForm("roll_number"),
		Password:    c.PostForm("password"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Address:     c.PostForm("address"),
		DateOfBirth: c.PostForm("date_of_birth"),
		BloodGroup:  c.PostForm("blood_group"),
		ParentName:  c.PostForm("parent_name"),
		ParentPhone: c.PostForm("parent_phone"),
		ParentEmail: c.PostForm("parent_email"),
	}
	if classID, err := strconv.ParseInt(c.PostForm("class_id"), 10, 64); err == nil {
		input.ClassID = classID
	}

	if file := formFile(c, "photo"); file != nil {
		src, err := file.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo"))
			return
		}
		defer src.Close()
		path, err := h.uploads.SaveUpload("photos", file.Filename, src)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo"))
			return
		}
		input.PhotoPath = &path
	}

	student, err := h.service.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"profile": student, "message": "Profile updated successfully"})
}

// mayAccessProfile allows admins to reach any profile; everyone else only
// their own.
func mayAccessProfile(c *gin.Context, userID int64) bool {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return false
	}
	return claims.Role == models.RoleAdmin || claims.UserID == userID
}

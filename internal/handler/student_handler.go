package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/edupanel-go/internal/service"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/response"
	"github.com/edupanel/edupanel-go/pkg/storage"
)

// StudentHandler exposes student CRUD, bulk import and roster export endpoints.
type StudentHandler struct {
	service  *service.StudentService
	importer *service.ImportService
	exporter *service.ExportService
	metrics  *service.MetricsService
	uploads  *storage.LocalStorage
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService, importer *service.ImportService, exporter *service.ExportService, metrics *service.MetricsService, uploads *storage.LocalStorage) *StudentHandler {
	return &StudentHandler{service: svc, importer: importer, exporter: exporter, metrics: metrics, uploads: uploads}
}

// List godoc
// @Summary List all students
// @Tags Students
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// ListByClass godoc
// @Summary List students enrolled in a class
// @Tags Students
// @Produce json
// @Param classId path int true "Class ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/students/class/{classId} [get]
func (h *StudentHandler) ListByClass(c *gin.Context) {
	classID, err := idParam(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.service.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"students": students})
}

// Create godoc
// @Summary Enroll a student
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /admin/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	input := service.CreateStudentInput{
		FirstName:   c.PostForm("first_name"),
		LastName:    c.PostForm("last_name"),
		RollNumber:  c.PostForm("roll_number"),
		Username:    c.PostForm("username"),
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

	photoPath, err := h.savePhoto(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	input.PhotoPath = photoPath

	student, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"student": student, "message": "Student added successfully"})
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
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

	photoPath, err := h.savePhoto(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	input.PhotoPath = photoPath

	student, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"student": student, "message": "Student updated successfully"})
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Student deleted successfully")
}

// BulkUpload godoc
// @Summary Import students from an Excel file
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/students/bulk-upload [post]
func (h *StudentHandler) BulkUpload(c *gin.Context) {
	file := formFile(c, "excelFile")
	if file == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Excel file is required"))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}
	defer src.Close()

	report, err := h.importer.ImportSpreadsheet(c.Request.Context(), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordImport(report.Imported, report.Failed, report.PhotosUploaded)
	response.OK(c, gin.H{
		"message": fmt.Sprintf("Imported %d students", report.Imported),
		"data":    report,
	})
}

// BulkUploadZip godoc
// @Summary Import students with photos from a ZIP archive
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/students/bulk-upload-zip [post]
func (h *StudentHandler) BulkUploadZip(c *gin.Context) {
	file := formFile(c, "zipFile")
	if file == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "ZIP file is required"))
		return
	}
	content, err := readAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}

	report, err := h.importer.ImportArchive(c.Request.Context(), bytes.NewReader(content), int64(len(content)))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordImport(report.Imported, report.Failed, report.PhotosUploaded)
	response.OK(c, gin.H{
		"message": fmt.Sprintf("Imported %d students", report.Imported),
		"data":    report,
	})
}

// Export godoc
// @Summary Export the roster of a class
// @Tags Students
// @Produce octet-stream
// @Param classId path int true "Class ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /admin/students/export/{classId} [get]
func (h *StudentHandler) Export(c *gin.Context) {
	classID, err := idParam(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))

	file, err := h.exporter.Roster(c.Request.Context(), classID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *StudentHandler) savePhoto(c *gin.Context) (*string, error) {
	file := formFile(c, "photo")
	if file == nil {
		return nil, nil
	}
	src, err := file.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo")
	}
	defer src.Close()
	path, err := h.uploads.SaveUpload("photos", file.Filename, src)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}
	return &path, nil
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/repository"
	"github.com/edupanel/edupanel-go/internal/service"
)

func newSectionRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewSectionRepository(sqlx.NewDb(db, "sqlmock"))
	svc := service.NewSectionService(repo, nil, time.Minute, nil, zap.NewNop())
	h := NewSectionHandler(svc)

	router := gin.New()
	api := router.Group("/api/admin")
	api.GET("/sections", h.List)
	api.POST("/sections", h.Create)
	api.DELETE("/sections/:id", h.Delete)
	return router, mock
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSectionHandlerList(t *testing.T) {
	router, mock := newSectionRouter(t)

	rows := sqlmock.NewRows([]string{"id", "section_name", "start_time", "end_time", "created_at"}).
		AddRow(1, "Primary", "08:00", "14:00", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, section_name, start_time, end_time, created_at FROM sections")).
		WillReturnRows(rows)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/sections", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	sections, ok := body["sections"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sections, 1)
}

func TestSectionHandlerCreateRejectsInvertedTimes(t *testing.T) {
	router, mock := newSectionRouter(t)

	payload := `{"section_name":"Primary","start_time":"14:00","end_time":"08:00"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/sections", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "End time must be after start time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionHandlerCreate(t *testing.T) {
	router, mock := newSectionRouter(t)

	mock.ExpectQuery("SELECT 1 FROM sections").
		WithArgs("Primary").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectQuery("INSERT INTO sections").
		WithArgs("Primary", "08:00", "14:00", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	payload := `{"section_name":"Primary","start_time":"08:00","end_time":"14:00"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/sections", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	section, ok := body["section"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), section["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionHandlerDeleteInvalidID(t *testing.T) {
	router, _ := newSectionRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/sections/abc", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

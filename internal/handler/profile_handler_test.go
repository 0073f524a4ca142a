package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/middleware"
	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/repository"
	"github.com/edupanel/edupanel-go/internal/service"
	"github.com/edupanel/edupanel-go/pkg/storage"
)

func newProfileRouter(t *testing.T, claims *models.JWTClaims) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	svc := service.NewStudentService(
		repository.NewStudentRepository(sqlxDB),
		repository.NewUserRepository(sqlxDB),
		repository.NewClassRepository(sqlxDB),
		nil, zap.NewNop())
	uploads, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	h := NewProfileHandler(svc, uploads)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextClaimsKey, claims)
		c.Next()
	})
	api.GET("/student/profile/:userId", h.Get)
	api.PUT("/student/profile/:userId", h.Update)
	return router, mock
}

func TestProfileHandlerRejectsOtherUsersProfile(t *testing.T) {
	router, mock := newProfileRouter(t, &models.JWTClaims{UserID: 7, Role: models.RoleStudent})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/student/profile/9", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Access denied", body["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileHandlerRejectsUpdatingOtherUsersProfile(t *testing.T) {
	router, mock := newProfileRouter(t, &models.JWTClaims{UserID: 7, Role: models.RoleStudent})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/student/profile/9", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileHandlerAllowsOwnProfile(t *testing.T) {
	router, mock := newProfileRouter(t, &models.JWTClaims{UserID: 7, Role: models.RoleStudent})

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/student/profile/7", nil)
	router.ServeHTTP(rec, req)

	// past the ownership gate, the missing row is the only failure left
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileHandlerAdminMayReadAnyProfile(t *testing.T) {
	router, mock := newProfileRouter(t, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/student/profile/9", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store := session.NewStore(session.NewMemoryBackend())
	return New(Config{BaseURL: server.URL, Session: store}), store
}

func signedIn(t *testing.T, store *session.Store) {
	t.Helper()
	require.NoError(t, store.Set(&session.Identity{
		UserID: 1, Username: "admin", Role: models.RoleAdmin, Token: "tok",
	}))
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"sections":[]}`))
	}))
	signedIn(t, store)

	_, err := c.Sections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestClientUsesServerMessageOnFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"Section with this name already exists"}`))
	}))

	_, err := c.AddSection(context.Background(), SectionInput{
		SectionName: "Primary", StartTime: "08:00", EndTime: "14:00",
	})
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "Section with this name already exists", err.Error())
}

func TestClientFallsBackToOperationMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))

	_, err := c.Sections(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "Failed to fetch sections", err.Error())
}

func TestClientTransportErrorMessage(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend())
	c := New(Config{BaseURL: "http://127.0.0.1:1", Session: store})

	_, err := c.Sections(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Contains(t, err.Error(), "Server is not responding")
}

func TestClientClearsSessionOn401(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid or expired token"}`))
	}))
	signedIn(t, store)

	teardownFired := false
	store.Subscribe(func() { teardownFired = true })

	_, err := c.Students(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Nil(t, store.Get())
	assert.True(t, teardownFired)
}

func TestClientLocalValidationSkipsRequest(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := c.AddSection(context.Background(), SectionInput{
		SectionName: "Primary", StartTime: "14:00", EndTime: "08:00",
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "End time must be after start time", err.Error())
	assert.Equal(t, 0, calls)

	_, err = c.SendNotification(context.Background(), NotificationInput{
		ClassID: 4, Title: "T", Description: "D", RecipientType: models.RecipientParticular,
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 0, calls)
}

func TestClientLoginStoresSession(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":"abc","user":{"id":1,"username":"admin","full_name":"Portal Admin","role":"admin"}}`))
	}))

	user, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	identity := store.Get()
	require.NotNil(t, identity)
	assert.Equal(t, "abc", identity.Token)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestClientBulkUploadDecodesReport(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/students/bulk-upload", r.URL.Path)
		file, _, err := r.FormFile("excelFile")
		require.NoError(t, err)
		file.Close()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"imported":3,"failed":2,"errorDetails":[{"row":4,"reason":"duplicate username"}]}}`))
	}))

	report, err := c.BulkUpload(context.Background(), FileInput{
		Filename: "students.xlsx",
		Reader:   strings.NewReader("fake"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.ErrorDetails, 1)
	assert.Equal(t, 4, report.ErrorDetails[0].Row)
}

func TestClientResolveFileURL(t *testing.T) {
	c := New(Config{BaseURL: "http://portal.local:3001"})

	assert.Equal(t, "", c.ResolveFileURL(""))
	assert.Equal(t, "http://portal.local:3001/uploads/photos/a.jpg", c.ResolveFileURL("/uploads/photos/a.jpg"))
	assert.Equal(t, "http://portal.local:3001/uploads/photos/a.jpg", c.ResolveFileURL("uploads/photos/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", c.ResolveFileURL("https://cdn.example.com/a.jpg"))
}

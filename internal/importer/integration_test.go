package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/edupanel-go/internal/client"
	"github.com/edupanel/edupanel-go/internal/session"
)

// fakePortal mimics the portal API closely enough to drive the SDK and the
// coordinator end to end.
type fakePortal struct {
	mux      *http.ServeMux
	sections []map[string]interface{}
	nextID   int64
}

func newFakePortal() *fakePortal {
	p := &fakePortal{mux: http.NewServeMux(), nextID: 1}

	p.mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "admin" || creds["password"] != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "invalid username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"token":   "test-token",
			"user":    map[string]interface{}{"id": 1, "username": "admin", "full_name": "Portal Admin", "role": "admin"},
		})
	})

	p.mux.HandleFunc("/api/admin/sections", func(w http.ResponseWriter, r *http.Request) {
		if !p.authorized(w, r) {
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "sections": p.sections})
		case http.MethodPost:
			var input map[string]string
			json.NewDecoder(r.Body).Decode(&input)
			section := map[string]interface{}{
				"id":           p.nextID,
				"section_name": input["section_name"],
				"start_time":   input["start_time"],
				"end_time":     input["end_time"],
			}
			p.nextID++
			p.sections = append(p.sections, section)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "section": section})
		}
	})

	p.mux.HandleFunc("/api/admin/sections/", func(w http.ResponseWriter, r *http.Request) {
		if !p.authorized(w, r) {
			return
		}
		if r.Method == http.MethodDelete {
			p.sections = nil
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Section deleted successfully"})
		}
	})

	p.mux.HandleFunc("/api/admin/students/bulk-upload", func(w http.ResponseWriter, r *http.Request) {
		if !p.authorized(w, r) {
			return
		}
		file, _, err := r.FormFile("excelFile")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Excel file is required"})
			return
		}
		file.Close()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"imported": 10, "failed": 0},
		})
	})

	return p
}

func (p *fakePortal) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer test-token" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Authorization token required"})
		return false
	}
	return true
}

func newPortalClient(t *testing.T) (*client.Client, *session.Store) {
	t.Helper()
	portal := newFakePortal()
	server := httptest.NewServer(portal.mux)
	t.Cleanup(server.Close)
	store := session.NewStore(session.NewMemoryBackend())
	return client.New(client.Config{BaseURL: server.URL, Session: store}), store
}

func TestPortalSectionLifecycle(t *testing.T) {
	api, store := newPortalClient(t)
	ctx := context.Background()

	_, err := api.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, store.Get())

	section, err := api.AddSection(ctx, client.SectionInput{
		SectionName: "Primary", StartTime: "08:00", EndTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Primary", section.SectionName)

	sections, err := api.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	require.NoError(t, api.DeleteSection(ctx, section.ID))
	sections, err = api.Sections(ctx)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestPortalBulkImportThroughCoordinator(t *testing.T) {
	api, _ := newPortalClient(t)
	ctx := context.Background()

	_, err := api.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	coord := New(api, nil)
	outcome, err := coord.Run(ctx, SpreadsheetOnly, "students.xlsx", strings.NewReader("workbook-bytes"))
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	assert.Equal(t, 10, outcome.Imported)
	assert.Contains(t, outcome.Message, "10")
}

func TestPortalSignedOutRequestClearsNothingButFails(t *testing.T) {
	api, store := newPortalClient(t)

	_, err := api.Sections(context.Background())
	require.Error(t, err)
	assert.Equal(t, client.KindUnauthorized, client.KindOf(err))
	assert.Nil(t, store.Get())
}

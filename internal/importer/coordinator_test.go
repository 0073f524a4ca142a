package importer

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/client"
	"github.com/edupanel/edupanel-go/internal/models"
)

type uploaderMock struct {
	mu        sync.Mutex
	calls     int
	zipCalls  int
	report    *models.ImportReport
	zipReport *models.ImportReport
	err       error
}

func (m *uploaderMock) BulkUpload(ctx context.Context, file client.FileInput) (*models.ImportReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.report, m.err
}

func (m *uploaderMock) BulkUploadZip(ctx context.Context, file client.FileInput) (*models.ImportReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zipCalls++
	return m.zipReport, m.err
}

func TestCoordinatorFullSuccess(t *testing.T) {
	up := &uploaderMock{report: &models.ImportReport{Imported: 5}}
	coord := New(up, zap.NewNop())

	var seen []State
	coord.Subscribe(func(s State) { seen = append(seen, s) })

	outcome, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	assert.Contains(t, outcome.Message, "5")
	assert.Equal(t, 5, outcome.Imported)
	assert.Equal(t, StateSuccess, coord.State())
	assert.Equal(t, []State{StateValidating, StateUploading, StateReconciling, StateSuccess}, seen)
}

func TestCoordinatorPartialSuccessKeepsErrors(t *testing.T) {
	up := &uploaderMock{report: &models.ImportReport{
		Imported: 3,
		Failed:   2,
		ErrorDetails: []models.RowError{
			{Row: 4, Reason: "duplicate username"},
			{Row: 6, Reason: "class 9 does not exist"},
		},
	}}
	coord := New(up, zap.NewNop())

	outcome, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StatePartialSuccess, outcome.State)
	assert.Contains(t, outcome.Message, "3")
	assert.Contains(t, outcome.Message, "2")
	require.Len(t, outcome.Errors, 2)
	assert.Equal(t, 4, outcome.Errors[0].Row)
}

func TestCoordinatorAllRowsFailed(t *testing.T) {
	up := &uploaderMock{report: &models.ImportReport{Failed: 5, ErrorDetails: []models.RowError{{Row: 2, Reason: "missing required fields"}}}}
	coord := New(up, zap.NewNop())

	outcome, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StateFailure, outcome.State)
	assert.Equal(t, 0, outcome.Imported)
	assert.NotEmpty(t, outcome.Errors)
}

func TestCoordinatorTransportFailure(t *testing.T) {
	up := &uploaderMock{err: &client.Error{Kind: client.KindTransport, Message: "Server is not responding. Please try again later."}}
	coord := New(up, zap.NewNop())

	outcome, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StateFailure, outcome.State)
	assert.Contains(t, outcome.Message, "Server is not responding")
}

func TestCoordinatorRejectsMissingFile(t *testing.T) {
	up := &uploaderMock{}
	coord := New(up, zap.NewNop())

	outcome, err := coord.Run(context.Background(), SpreadsheetOnly, "", nil)
	require.NoError(t, err)
	assert.Equal(t, StateFailure, outcome.State)
	assert.Equal(t, "Please select a file first", outcome.Message)
	assert.Equal(t, 0, up.calls)
}

func TestCoordinatorRejectsWrongExtension(t *testing.T) {
	up := &uploaderMock{}
	coord := New(up, zap.NewNop())

	outcome, err := coord.Run(context.Background(), ArchiveWithPhotos, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StateFailure, outcome.State)
	assert.Contains(t, outcome.Message, "ZIP")
	assert.Equal(t, 0, up.zipCalls)
}

func TestCoordinatorArchiveMentionsPhotos(t *testing.T) {
	up := &uploaderMock{zipReport: &models.ImportReport{Imported: 4, PhotosUploaded: 3}}
	coord := New(up, zap.NewNop())

	outcome, err := coord.Run(context.Background(), ArchiveWithPhotos, "students.zip", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	assert.Contains(t, outcome.Message, "Photos uploaded: 3")
	assert.Equal(t, 3, outcome.PhotosUploaded)
}

func TestCoordinatorRejectsConcurrentRun(t *testing.T) {
	up := &uploaderMock{report: &models.ImportReport{Imported: 1}}
	coord := New(up, zap.NewNop())

	// force a busy state and confirm a second run is refused
	coord.mu.Lock()
	coord.state = StateUploading
	coord.mu.Unlock()

	_, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, client.KindValidation, client.KindOf(err))
	assert.Equal(t, 0, up.calls)
}

func TestCoordinatorReset(t *testing.T) {
	up := &uploaderMock{report: &models.ImportReport{Imported: 2}}
	coord := New(up, zap.NewNop())

	_, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, StateSuccess, coord.State())

	require.NoError(t, coord.Reset())
	assert.Equal(t, StateIdle, coord.State())
	assert.Nil(t, coord.Outcome())
}

func TestCoordinatorResetRejectedAfterFailure(t *testing.T) {
	up := &uploaderMock{report: &models.ImportReport{Failed: 1}}
	coord := New(up, zap.NewNop())

	_, err := coord.Run(context.Background(), SpreadsheetOnly, "students.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, StateFailure, coord.State())

	err = coord.Reset()
	require.Error(t, err)
	assert.NotNil(t, coord.Outcome())
}

// Package importer drives a bulk student import from file selection through
// upload to the reconciled outcome. The server's counts are authoritative;
// the coordinator only relays them.
package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/client"
	"github.com/edupanel/edupanel-go/internal/models"
)

// Kind selects the upload flavor.
type Kind string

const (
	// SpreadsheetOnly imports from a bare .xlsx workbook.
	SpreadsheetOnly Kind = "spreadsheet"
	// ArchiveWithPhotos imports from a .zip holding the workbook plus photos.
	ArchiveWithPhotos Kind = "archive"
)

// State is the coordinator's position in the import lifecycle.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateUploading      State = "uploading"
	StateReconciling    State = "reconciling"
	StateSuccess        State = "success"
	StatePartialSuccess State = "partial_success"
	StateFailure        State = "failure"
)

// terminal reports whether the state ends a run.
func (s State) terminal() bool {
	return s == StateSuccess || s == StatePartialSuccess || s == StateFailure
}

// Outcome is the reconciled result of one import run.
type Outcome struct {
	State          State
	Message        string
	Imported       int
	Failed         int
	PhotosUploaded int
	Errors         []models.RowError
}

type uploader interface {
	BulkUpload(ctx context.Context, file client.FileInput) (*models.ImportReport, error)
	BulkUploadZip(ctx context.Context, file client.FileInput) (*models.ImportReport, error)
}

// Coordinator serializes import runs and tracks their state.
type Coordinator struct {
	uploader uploader
	logger   *zap.Logger

	mu      sync.Mutex
	state   State
	outcome *Outcome
	nextSub int
	subs    map[int]func(State)
}

// New builds an idle coordinator over the given API client.
func New(up uploader, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		uploader: up,
		logger:   logger,
		state:    StateIdle,
		subs:     make(map[int]func(State)),
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outcome returns the result of the last finished run, or nil.
func (c *Coordinator) Outcome() *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return nil
	}
	copied := *c.outcome
	return &copied
}

// Subscribe registers an observer for state changes. Observers run on the
// goroutine driving the transition. The returned function removes the
// subscription.
func (c *Coordinator) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Run executes one import. It may be called from Idle or any terminal state;
// a run already in flight is rejected without touching the server.
func (c *Coordinator) Run(ctx context.Context, kind Kind, filename string, file io.Reader) (*Outcome, error) {
	c.mu.Lock()
	if c.state != StateIdle && !c.state.terminal() {
		c.mu.Unlock()
		return nil, &client.Error{Kind: client.KindValidation, Message: "An import is already in progress"}
	}
	notify := c.transitionLocked(StateValidating)
	c.mu.Unlock()
	notify()

	if reason := validateSelection(kind, filename, file); reason != "" {
		return c.finish(&Outcome{State: StateFailure, Message: reason}), nil
	}

	c.setState(StateUploading)
	input := client.FileInput{Filename: filename, Reader: file}
	var report *models.ImportReport
	var err error
	switch kind {
	case ArchiveWithPhotos:
		report, err = c.uploader.BulkUploadZip(ctx, input)
	default:
		report, err = c.uploader.BulkUpload(ctx, input)
	}

	c.setState(StateReconciling)
	if err != nil {
		c.logger.Warn("import upload failed", zap.String("file", filename), zap.Error(err))
		return c.finish(&Outcome{State: StateFailure, Message: err.Error()}), nil
	}
	return c.finish(reconcile(kind, report)), nil
}

// Reset returns the coordinator to Idle. Only finished successful runs may
// be reset; a failed run keeps its outcome so the operator can retry the
// same file.
func (c *Coordinator) Reset() error {
	c.mu.Lock()
	if c.state != StateSuccess && c.state != StatePartialSuccess {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("cannot reset from state %s", state)
	}
	c.outcome = nil
	notify := c.transitionLocked(StateIdle)
	c.mu.Unlock()
	notify()
	return nil
}

func validateSelection(kind Kind, filename string, file io.Reader) string {
	if file == nil || filename == "" {
		return "Please select a file first"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch kind {
	case ArchiveWithPhotos:
		if ext != ".zip" {
			return "Please upload a ZIP file (.zip)"
		}
	default:
		if ext != ".xlsx" {
			return "Please upload an Excel file (.xlsx)"
		}
	}
	return ""
}

// reconcile maps the server report onto a terminal outcome. Counts come from
// the report untouched.
func reconcile(kind Kind, report *models.ImportReport) *Outcome {
	outcome := &Outcome{
		Imported:       report.Imported,
		Failed:         report.Failed,
		PhotosUploaded: report.PhotosUploaded,
		Errors:         report.ErrorDetails,
	}
	switch {
	case report.Imported > 0 && report.Failed == 0:
		outcome.State = StateSuccess
		outcome.Message = fmt.Sprintf("Successfully imported %d students!", report.Imported)
	case report.Imported > 0:
		outcome.State = StatePartialSuccess
		outcome.Message = fmt.Sprintf("Imported %d students, %d rows failed.", report.Imported, report.Failed)
	default:
		outcome.State = StateFailure
		outcome.Message = "No students were imported."
	}
	if kind == ArchiveWithPhotos && outcome.State != StateFailure {
		outcome.Message += fmt.Sprintf(" Photos uploaded: %d", report.PhotosUploaded)
	}
	return outcome
}

func (c *Coordinator) finish(outcome *Outcome) *Outcome {
	c.mu.Lock()
	c.outcome = outcome
	notify := c.transitionLocked(outcome.State)
	c.mu.Unlock()
	notify()
	copied := *outcome
	return &copied
}

func (c *Coordinator) setState(next State) {
	c.mu.Lock()
	notify := c.transitionLocked(next)
	c.mu.Unlock()
	notify()
}

// transitionLocked requires c.mu held. It returns the notifier to call after
// releasing the lock, so observers can re-enter the coordinator.
func (c *Coordinator) transitionLocked(next State) func() {
	if c.state == next {
		return func() {}
	}
	c.state = next
	observers := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		observers = append(observers, fn)
	}
	return func() {
		for _, fn := range observers {
			fn(next)
		}
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
	"github.com/edupanel/edupanel-go/pkg/export"
)

// ExportFormat selects the roster export encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered roster document.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders class rosters as downloadable documents.
type ExportService struct {
	students rosterLookup
	classes  classSectionLookup
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(students rosterLookup, classes classSectionLookup, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		classes:  classes,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Roster renders the roster of a class in the requested format.
func (s *ExportService) Roster(ctx context.Context, classID int64, format ExportFormat) (*ExportFile, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch students")
	}

	dataset := rosterDataset(students)
	slug := strings.ReplaceAll(strings.ToLower(class.ClassName), " ", "_")

	switch format {
	case ExportCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: slug + "_roster.csv"}, nil
	case ExportPDF:
		content, err := s.pdf.Render(dataset, class.ClassName+" Roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: slug + "_roster.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func rosterDataset(students []models.StudentDetail) export.Dataset {
	headers := []string{"Roll Number", "First Name", "Last Name", "Username", "Email", "Phone", "Parent Name", "Parent Phone"}
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"Roll Number":  st.RollNumber,
			"First Name":   st.FirstName,
			"Last Name":    st.LastName,
			"Username":     st.Username,
			"Email":        st.Email,
			"Phone":        st.Phone,
			"Parent Name":  st.ParentName,
			"Parent Phone": st.ParentPhone,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

package service

import (
	"archive/zip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

// importColumns are the recognized spreadsheet headers. The first six are
// mandatory on every row; the rest default to empty when absent.
var importRequiredColumns = []string{"first_name", "last_name", "roll_number", "class_id", "username", "password"}

var importOptionalColumns = []string{
	"email", "phone", "address", "date_of_birth", "blood_group",
	"parent_name", "parent_phone", "parent_email",
}

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type photoStore interface {
	SaveUpload(subdir, originalName string, r io.Reader) (string, error)
	RemoveUpload(webPath string) error
}

// ImportService implements bulk student enrollment from spreadsheets and
// photo archives.
type ImportService struct {
	students studentRepository
	users    studentUserRepository
	classes  classSectionLookup
	storage  photoStore
	logger   *zap.Logger
}

// NewImportService constructs an ImportService instance.
func NewImportService(students studentRepository, users studentUserRepository, classes classSectionLookup, storage photoStore, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{students: students, users: users, classes: classes, storage: storage, logger: logger}
}

// ImportSpreadsheet enrolls students from an .xlsx workbook. Rows that fail
// validation are skipped and reported; valid rows are still imported.
func (s *ImportService) ImportSpreadsheet(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	rows, err := s.parseWorkbook(r)
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, rows, nil)
}

// ImportArchive enrolls students from a ZIP containing one .xlsx workbook and
// student photos. Photos are matched to rows by file base name against the
// roll number or username, case-insensitively.
func (s *ImportService) ImportArchive(ctx context.Context, r io.ReaderAt, size int64) (*models.ImportReport, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid ZIP file")
	}

	var workbook *zip.File
	photos := make(map[string]*zip.File)
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name)
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "__MACOSX") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case ext == ".xlsx" && workbook == nil:
			workbook = f
		case photoExtensions[ext]:
			base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
			photos[base] = f
		}
	}
	if workbook == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ZIP must contain an Excel file")
	}

	wb, err := workbook.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read Excel file from ZIP")
	}
	defer wb.Close()

	rows, err := s.parseWorkbook(wb)
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, rows, photos)
}

type importRow struct {
	number int // spreadsheet row number, header is row 1
	fields map[string]string
}

func (s *ImportService) parseWorkbook(r io.Reader) ([]importRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid Excel file")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Excel file has no sheets")
	}
	raw, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read Excel rows")
	}
	if len(raw) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Excel file has no data rows")
	}

	index := make(map[string]int)
	for i, h := range raw[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range importRequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Missing required column: %s", col))
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []importRow
	for n, raw := range raw[1:] {
		fields := make(map[string]string)
		empty := true
		for _, col := range append(append([]string{}, importRequiredColumns...), importOptionalColumns...) {
			v := cell(raw, col)
			fields[col] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, importRow{number: n + 2, fields: fields})
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Excel file has no data rows")
	}
	return rows, nil
}

func (s *ImportService) importRows(ctx context.Context, rows []importRow, photos map[string]*zip.File) (*models.ImportReport, error) {
	report := &models.ImportReport{}
	seenUsernames := make(map[string]bool)
	seenRolls := make(map[string]bool)
	knownClasses := make(map[int64]bool)

	fail := func(row int, reason string) {
		report.Failed++
		report.ErrorDetails = append(report.ErrorDetails, models.RowError{Row: row, Reason: reason})
	}

	for _, row := range rows {
		f := row.fields

		missing := make([]string, 0, len(importRequiredColumns))
		for _, col := range importRequiredColumns {
			if f[col] == "" {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			fail(row.number, "missing required fields: "+strings.Join(missing, ", "))
			continue
		}

		classID, err := strconv.ParseInt(f["class_id"], 10, 64)
		if err != nil || classID <= 0 {
			fail(row.number, fmt.Sprintf("invalid class_id %q", f["class_id"]))
			continue
		}
		if known, checked := knownClasses[classID]; !checked {
			_, err := s.classes.FindByID(ctx, classID)
			switch {
			case err == nil:
				knownClasses[classID] = true
			case errors.Is(err, sql.ErrNoRows):
				knownClasses[classID] = false
			default:
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
			}
			if !knownClasses[classID] {
				fail(row.number, fmt.Sprintf("class %d does not exist", classID))
				continue
			}
		} else if !known {
			fail(row.number, fmt.Sprintf("class %d does not exist", classID))
			continue
		}

		username := strings.ToLower(f["username"])
		if seenUsernames[username] {
			fail(row.number, fmt.Sprintf("duplicate username %q in file", f["username"]))
			continue
		}
		taken, err := s.users.ExistsByUsername(ctx, f["username"])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
		}
		if taken {
			fail(row.number, fmt.Sprintf("username %q already exists", f["username"]))
			continue
		}

		rollKey := fmt.Sprintf("%d:%s", classID, strings.ToLower(f["roll_number"]))
		if seenRolls[rollKey] {
			fail(row.number, fmt.Sprintf("duplicate roll number %q in file", f["roll_number"]))
			continue
		}
		duplicate, err := s.students.ExistsByRollNumber(ctx, classID, f["roll_number"], 0)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
		}
		if duplicate {
			fail(row.number, fmt.Sprintf("roll number %q already exists in class %d", f["roll_number"], classID))
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(f["password"]), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}

		photoPath, photoErr := s.matchPhoto(photos, f["roll_number"], f["username"])
		if photoErr != nil {
			fail(row.number, photoErr.Error())
			continue
		}

		user := &models.User{
			Username:     f["username"],
			PasswordHash: string(hash),
			FullName:     f["first_name"] + " " + f["last_name"],
			Role:         models.RoleStudent,
		}
		student := &models.Student{
			FirstName:   f["first_name"],
			LastName:    f["last_name"],
			RollNumber:  f["roll_number"],
			ClassID:     classID,
			Email:       f["email"],
			Phone:       f["phone"],
			Address:     f["address"],
			DateOfBirth: f["date_of_birth"],
			BloodGroup:  f["blood_group"],
			ParentName:  f["parent_name"],
			ParentPhone: f["parent_phone"],
			ParentEmail: f["parent_email"],
			PhotoPath:   photoPath,
		}
		if err := s.students.Create(ctx, user, student); err != nil {
			if photoPath != nil {
				if rmErr := s.storage.RemoveUpload(*photoPath); rmErr != nil {
					s.logger.Warn("failed to remove photo of failed row",
						zap.String("path", *photoPath), zap.Error(rmErr))
				}
			}
			fail(row.number, "failed to save student: "+err.Error())
			continue
		}

		seenUsernames[username] = true
		seenRolls[rollKey] = true
		report.Imported++
		if photoPath != nil {
			report.PhotosUploaded++
		}
	}

	s.logger.Info("bulk import finished",
		zap.Int("imported", report.Imported),
		zap.Int("failed", report.Failed),
		zap.Int("photos_uploaded", report.PhotosUploaded))
	return report, nil
}

// matchPhoto finds a photo for the row and stores it, returning the stored
// web path. Rows without a matching photo import without one.
func (s *ImportService) matchPhoto(photos map[string]*zip.File, rollNumber, username string) (*string, error) {
	if len(photos) == 0 {
		return nil, nil
	}

	var file *zip.File
	for _, key := range []string{strings.ToLower(rollNumber), strings.ToLower(username)} {
		if f, ok := photos[key]; ok {
			file = f
			break
		}
	}
	if file == nil {
		return nil, nil
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read photo %s", filepath.Base(file.Name))
	}
	defer src.Close()

	path, err := s.storage.SaveUpload("photos", filepath.Base(file.Name), src)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo %s", filepath.Base(file.Name))
	}
	return &path, nil
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

type classRepoMock struct {
	listFn          func(ctx context.Context) ([]models.ClassDetail, error)
	findFn          func(ctx context.Context, id int64) (*models.Class, error)
	existsFn        func(ctx context.Context, name string, sectionID int64) (bool, error)
	createFn        func(ctx context.Context, class *models.Class) error
	deleteFn        func(ctx context.Context, id int64) error
	countStudentsFn func(ctx context.Context, classID int64) (int, error)
}

func (m *classRepoMock) List(ctx context.Context) ([]models.ClassDetail, error) {
	return m.listFn(ctx)
}

func (m *classRepoMock) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	return m.findFn(ctx, id)
}

func (m *classRepoMock) ExistsByName(ctx context.Context, name string, sectionID int64) (bool, error) {
	return m.existsFn(ctx, name, sectionID)
}

func (m *classRepoMock) Create(ctx context.Context, class *models.Class) error {
	return m.createFn(ctx, class)
}

func (m *classRepoMock) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *classRepoMock) CountStudents(ctx context.Context, classID int64) (int, error) {
	return m.countStudentsFn(ctx, classID)
}

type sectionLookupMock struct {
	findFn func(ctx context.Context, id int64) (*models.Section, error)
}

func (m *sectionLookupMock) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	return m.findFn(ctx, id)
}

func TestClassServiceCreateRejectsUnknownSection(t *testing.T) {
	repo := &classRepoMock{}
	sections := &sectionLookupMock{
		findFn: func(ctx context.Context, id int64) (*models.Section, error) { return nil, sql.ErrNoRows },
	}
	svc := NewClassService(repo, sections, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateClassInput{
		ClassName:   "Grade 5A",
		SectionID:   42,
		TeacherName: "R Iyer",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "section does not exist")
}

func TestClassServiceCreate(t *testing.T) {
	repo := &classRepoMock{
		existsFn: func(ctx context.Context, name string, sectionID int64) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, class *models.Class) error {
			class.ID = 4
			return nil
		},
	}
	sections := &sectionLookupMock{
		findFn: func(ctx context.Context, id int64) (*models.Section, error) {
			return &models.Section{ID: id, SectionName: "Primary"}, nil
		},
	}
	svc := NewClassService(repo, sections, nil, time.Minute, nil, zap.NewNop())

	class, err := svc.Create(context.Background(), CreateClassInput{
		ClassName:   "Grade 5A",
		SectionID:   1,
		TeacherName: "R Iyer",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), class.ID)
}

func TestClassServiceDeleteRejectsEnrolledStudents(t *testing.T) {
	deleted := false
	repo := &classRepoMock{
		findFn:          func(ctx context.Context, id int64) (*models.Class, error) { return &models.Class{ID: id}, nil },
		countStudentsFn: func(ctx context.Context, classID int64) (int, error) { return 12, nil },
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := NewClassService(repo, &sectionLookupMock{}, nil, time.Minute, nil, zap.NewNop())

	err := svc.Delete(context.Background(), 4)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Cannot delete class with enrolled students")
	assert.False(t, deleted)
}

func TestClassServiceListFallsBackToRepo(t *testing.T) {
	repo := &classRepoMock{
		listFn: func(ctx context.Context) ([]models.ClassDetail, error) {
			return []models.ClassDetail{{Class: models.Class{ID: 1, ClassName: "Grade 5A"}, SectionName: "Primary"}}, nil
		},
	}
	cache := &cacheMock{}
	svc := NewClassService(repo, &sectionLookupMock{}, cache, time.Minute, nil, zap.NewNop())

	classes, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Primary", classes[0].SectionName)
}

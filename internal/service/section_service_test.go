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

type sectionRepoMock struct {
	listFn         func(ctx context.Context) ([]models.Section, error)
	findFn         func(ctx context.Context, id int64) (*models.Section, error)
	existsFn       func(ctx context.Context, name string) (bool, error)
	createFn       func(ctx context.Context, section *models.Section) error
	deleteFn       func(ctx context.Context, id int64) error
	countClassesFn func(ctx context.Context, sectionID int64) (int, error)
}

func (m *sectionRepoMock) List(ctx context.Context) ([]models.Section, error) {
	return m.listFn(ctx)
}

func (m *sectionRepoMock) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	return m.findFn(ctx, id)
}

func (m *sectionRepoMock) ExistsByName(ctx context.Context, name string) (bool, error) {
	return m.existsFn(ctx, name)
}

func (m *sectionRepoMock) Create(ctx context.Context, section *models.Section) error {
	return m.createFn(ctx, section)
}

func (m *sectionRepoMock) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *sectionRepoMock) CountClasses(ctx context.Context, sectionID int64) (int, error) {
	return m.countClassesFn(ctx, sectionID)
}

type cacheMock struct {
	getFn func(ctx context.Context, key string, dest interface{}) error
	setFn func(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	delFn func(ctx context.Context, keys ...string) error
}

func (m *cacheMock) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getFn != nil {
		return m.getFn(ctx, key, dest)
	}
	return appErrors.ErrCacheMiss
}

func (m *cacheMock) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *cacheMock) Delete(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func TestSectionServiceCreateRejectsInvertedTimes(t *testing.T) {
	created := false
	repo := &sectionRepoMock{
		existsFn: func(ctx context.Context, name string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, section *models.Section) error {
			created = true
			return nil
		},
	}
	svc := NewSectionService(repo, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSectionInput{
		SectionName: "Primary",
		StartTime:   "14:00",
		EndTime:     "08:00",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "End time must be after start time")
	assert.False(t, created)
}

func TestSectionServiceCreateRejectsDuplicateName(t *testing.T) {
	repo := &sectionRepoMock{
		existsFn: func(ctx context.Context, name string) (bool, error) { return true, nil },
	}
	svc := NewSectionService(repo, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSectionInput{
		SectionName: "Primary",
		StartTime:   "08:00",
		EndTime:     "14:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceCreateInvalidatesCache(t *testing.T) {
	var deleted []string
	repo := &sectionRepoMock{
		existsFn: func(ctx context.Context, name string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, section *models.Section) error {
			section.ID = 9
			return nil
		},
	}
	cache := &cacheMock{delFn: func(ctx context.Context, keys ...string) error {
		deleted = append(deleted, keys...)
		return nil
	}}
	svc := NewSectionService(repo, cache, time.Minute, nil, zap.NewNop())

	section, err := svc.Create(context.Background(), CreateSectionInput{
		SectionName: "Primary",
		StartTime:   "08:00",
		EndTime:     "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), section.ID)
	assert.Contains(t, deleted, sectionsListCacheKey)
}

func TestSectionServiceListServesFromCache(t *testing.T) {
	repoCalled := false
	repo := &sectionRepoMock{
		listFn: func(ctx context.Context) ([]models.Section, error) {
			repoCalled = true
			return nil, nil
		},
	}
	cache := &cacheMock{getFn: func(ctx context.Context, key string, dest interface{}) error {
		sections := dest.(*[]models.Section)
		*sections = []models.Section{{ID: 1, SectionName: "Primary"}}
		return nil
	}}
	svc := NewSectionService(repo, cache, time.Minute, nil, zap.NewNop())

	sections, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Primary", sections[0].SectionName)
	assert.False(t, repoCalled)
}

func TestSectionServiceDeleteRejectsSectionInUse(t *testing.T) {
	repo := &sectionRepoMock{
		findFn:         func(ctx context.Context, id int64) (*models.Section, error) { return &models.Section{ID: id}, nil },
		countClassesFn: func(ctx context.Context, sectionID int64) (int, error) { return 2, nil },
	}
	svc := NewSectionService(repo, nil, time.Minute, nil, zap.NewNop())

	err := svc.Delete(context.Background(), 3)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Cannot delete section")
}

func TestSectionServiceDeleteMissingSection(t *testing.T) {
	repo := &sectionRepoMock{
		findFn: func(ctx context.Context, id int64) (*models.Section, error) { return nil, sql.ErrNoRows },
	}
	svc := NewSectionService(repo, nil, time.Minute, nil, zap.NewNop())

	err := svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

const sectionsListCacheKey = "sections:list"

type sectionRepository interface {
	List(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
	CountClasses(ctx context.Context, sectionID int64) (int, error)
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CreateSectionInput carries the fields needed to create a section.
type CreateSectionInput struct {
	SectionName string `json:"section_name" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

// SectionService implements section management use cases.
type SectionService struct {
	repo      sectionRepository
	cache     listCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService constructs a SectionService instance.
func NewSectionService(repo sectionRepository, cache listCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns all sections, serving from cache when possible.
func (s *SectionService) List(ctx context.Context) ([]models.Section, error) {
	if s.cache != nil {
		var cached []models.Section
		if err := s.cache.Get(ctx, sectionsListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch sections")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sectionsListCacheKey, sections, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache sections list", zap.Error(err))
		}
	}

	return sections, nil
}

// Create validates and persists a new section.
func (s *SectionService) Create(ctx context.Context, input CreateSectionInput) (*models.Section, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "section name, start time and end time are required")
	}

	start, err := time.Parse("15:04", input.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must use HH:MM format")
	}
	end, err := time.Parse("15:04", input.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must use HH:MM format")
	}
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "End time must be after start time")
	}

	exists, err := s.repo.ExistsByName(ctx, input.SectionName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Section with this name already exists")
	}

	section := &models.Section{
		SectionName: input.SectionName,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add section")
	}

	s.invalidate(ctx)
	s.logger.Info("section created", zap.Int64("section_id", section.ID), zap.String("name", section.SectionName))
	return section, nil
}

// Delete removes a section if no classes belong to it.
func (s *SectionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Section not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch section")
	}

	count, err := s.repo.CountClasses(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Cannot delete section with existing classes")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}

	s.invalidate(ctx)
	s.logger.Info("section deleted", zap.Int64("section_id", id))
	return nil
}

func (s *SectionService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sectionsListCacheKey, classesListCacheKey); err != nil {
		s.logger.Warn("failed to invalidate section caches", zap.Error(err))
	}
}

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

const classesListCacheKey = "classes:list"

type classRepository interface {
	List(ctx context.Context) ([]models.ClassDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	ExistsByName(ctx context.Context, name string, sectionID int64) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	CountStudents(ctx context.Context, classID int64) (int, error)
}

type classSectionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Section, error)
}

// CreateClassInput carries the fields needed to create a class.
type CreateClassInput struct {
	ClassName   string `json:"class_name" validate:"required"`
	SectionID   int64  `json:"section_id" validate:"required,gt=0"`
	TeacherName string `json:"teacher_name" validate:"required"`
}

// ClassService implements class management use cases.
type ClassService struct {
	repo      classRepository
	sections  classSectionRepository
	cache     listCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(repo classRepository, sections classSectionRepository, cache listCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, sections: sections, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns all classes with section names, serving from cache when possible.
func (s *ClassService) List(ctx context.Context) ([]models.ClassDetail, error) {
	if s.cache != nil {
		var cached []models.ClassDetail
		if err := s.cache.Get(ctx, classesListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch classes")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, classesListCacheKey, classes, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache classes list", zap.Error(err))
		}
	}

	return classes, nil
}

// Create validates and persists a new class.
func (s *ClassService) Create(ctx context.Context, input CreateClassInput) (*models.Class, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class name, section and teacher name are required")
	}

	if _, err := s.sections.FindByID(ctx, input.SectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Selected section does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch section")
	}

	exists, err := s.repo.ExistsByName(ctx, input.ClassName, input.SectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Class with this name already exists in the section")
	}

	class := &models.Class{
		ClassName:   input.ClassName,
		SectionID:   input.SectionID,
		TeacherName: input.TeacherName,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add class")
	}

	s.invalidate(ctx)
	s.logger.Info("class created", zap.Int64("class_id", class.ID), zap.String("name", class.ClassName))
	return class, nil
}

// Delete removes a class if no students are enrolled in it.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	count, err := s.repo.CountStudents(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class enrollment")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Cannot delete class with enrolled students")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}

	s.invalidate(ctx)
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	return nil
}

func (s *ClassService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, classesListCacheKey); err != nil {
		s.logger.Warn("failed to invalidate classes cache", zap.Error(err))
	}
}

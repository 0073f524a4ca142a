package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

// AssignmentInput carries the fields of an assignment create or update.
type AssignmentInput struct {
	Title       string `validate:"required"`
	Description string
	ClassID     int64  `validate:"required,gt=0"`
	DueDate     string `validate:"required"`
	FilePath    *string
}

// AssignmentService implements assignment management use cases.
type AssignmentService struct {
	repo      assignmentRepository
	classes   classSectionLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(repo assignmentRepository, classes classSectionLookup, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// List returns all assignments with class names.
func (s *AssignmentService) List(ctx context.Context) ([]models.AssignmentDetail, error) {
	assignments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignments")
	}
	return assignments, nil
}

// Create validates and persists a new assignment.
func (s *AssignmentService) Create(ctx context.Context, input AssignmentInput) (*models.Assignment, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Title:       input.Title,
		Description: input.Description,
		ClassID:     input.ClassID,
		DueDate:     input.DueDate,
		FilePath:    input.FilePath,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add assignment")
	}

	s.logger.Info("assignment created", zap.Int64("assignment_id", assignment.ID), zap.Int64("class_id", assignment.ClassID))
	return assignment, nil
}

// Update modifies an existing assignment. A nil FilePath keeps the stored file.
func (s *AssignmentService) Update(ctx context.Context, id int64, input AssignmentInput) (*models.Assignment, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}

	assignment.Title = input.Title
	assignment.Description = input.Description
	assignment.ClassID = input.ClassID
	assignment.DueDate = input.DueDate
	if input.FilePath != nil {
		assignment.FilePath = input.FilePath
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}

	s.logger.Info("assignment updated", zap.Int64("assignment_id", assignment.ID))
	return assignment, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}

	s.logger.Info("assignment deleted", zap.Int64("assignment_id", id))
	return nil
}

func (s *AssignmentService) validate(ctx context.Context, input AssignmentInput) error {
	if err := s.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, class and due date are required")
	}

	if _, err := s.classes.FindByID(ctx, input.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "Selected class does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	return nil
}

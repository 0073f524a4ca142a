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

type notificationRepository interface {
	List(ctx context.Context) ([]models.NotificationDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type rosterLookup interface {
	ListByClass(ctx context.Context, classID int64) ([]models.StudentDetail, error)
}

// NotificationInput carries the fields of a notification create or update.
type NotificationInput struct {
	ClassID          int64  `validate:"required,gt=0"`
	Title            string `validate:"required"`
	Description      string `validate:"required"`
	Message          *string
	RecipientType    models.RecipientType `validate:"required,oneof=all particular"`
	SelectedStudents models.StudentIDList
	FilePath         *string
}

// NotificationService implements notification management use cases.
type NotificationService struct {
	repo      notificationRepository
	classes   classSectionLookup
	roster    rosterLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(repo notificationRepository, classes classSectionLookup, roster rosterLookup, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, classes: classes, roster: roster, validator: validate, logger: logger}
}

// List returns all notifications with class names.
func (s *NotificationService) List(ctx context.Context) ([]models.NotificationDetail, error) {
	notifications, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notifications")
	}
	return notifications, nil
}

// Create validates targeting and persists a new notification.
func (s *NotificationService) Create(ctx context.Context, input NotificationInput) (*models.Notification, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		ClassID:          input.ClassID,
		Title:            input.Title,
		Description:      input.Description,
		Message:          input.Message,
		RecipientType:    input.RecipientType,
		SelectedStudents: input.SelectedStudents,
		FilePath:         input.FilePath,
	}
	if notification.RecipientType == models.RecipientAll {
		notification.SelectedStudents = nil
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add notification")
	}

	s.logger.Info("notification created",
		zap.Int64("notification_id", notification.ID),
		zap.Int64("class_id", notification.ClassID),
		zap.String("recipient_type", string(notification.RecipientType)))
	return notification, nil
}

// Update modifies an existing notification. A nil FilePath keeps the stored file.
func (s *NotificationService) Update(ctx context.Context, id int64, input NotificationInput) (*models.Notification, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notification")
	}

	notification.ClassID = input.ClassID
	notification.Title = input.Title
	notification.Description = input.Description
	notification.Message = input.Message
	notification.RecipientType = input.RecipientType
	notification.SelectedStudents = input.SelectedStudents
	if notification.RecipientType == models.RecipientAll {
		notification.SelectedStudents = nil
	}
	if input.FilePath != nil {
		notification.FilePath = input.FilePath
	}

	if err := s.repo.Update(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}

	s.logger.Info("notification updated", zap.Int64("notification_id", notification.ID))
	return notification, nil
}

// MarkRead flags a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notification")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notification")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}

	s.logger.Info("notification deleted", zap.Int64("notification_id", id))
	return nil
}

func (s *NotificationService) validate(ctx context.Context, input NotificationInput) error {
	if err := s.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class, title, description and recipient type are required")
	}

	if _, err := s.classes.FindByID(ctx, input.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "Selected class does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	if input.RecipientType != models.RecipientParticular {
		return nil
	}

	if len(input.SelectedStudents) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "Please select at least one student")
	}

	roster, err := s.roster.ListByClass(ctx, input.ClassID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch students")
	}
	enrolled := make(map[int64]struct{}, len(roster))
	for _, st := range roster {
		enrolled[st.ID] = struct{}{}
	}
	for _, id := range input.SelectedStudents {
		if _, ok := enrolled[id]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, "Selected students must belong to the chosen class")
		}
	}

	return nil
}

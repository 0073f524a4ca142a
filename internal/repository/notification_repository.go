package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edupanel/edupanel-go/internal/models"
)

// NotificationRepository manages persistence for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a new notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List returns all notifications with their class names, newest first.
func (r *NotificationRepository) List(ctx context.Context) ([]models.NotificationDetail, error) {
	const query = `SELECT n.id, n.class_id, n.title, n.description, n.message, n.file_path,
        n.recipient_type, n.selected_students, n.is_read, n.created_at, c.class_name
        FROM notifications n JOIN classes c ON c.id = n.class_id ORDER BY n.created_at DESC`
	var notifications []models.NotificationDetail
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// FindByID returns a notification record by ID.
func (r *NotificationRepository) FindByID(ctx context.Context, id int64) (*models.Notification, error) {
	const query = `SELECT id, class_id, title, description, message, file_path, recipient_type,
        selected_students, is_read, created_at FROM notifications WHERE id = $1`
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Create persists a notification record and fills in the generated ID.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications
        (class_id, title, description, message, file_path, recipient_type, selected_students, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &notification.ID, query,
		notification.ClassID, notification.Title, notification.Description, notification.Message,
		notification.FilePath, notification.RecipientType, notification.SelectedStudents,
		notification.IsRead, notification.CreatedAt); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// Update modifies a notification record.
func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	const query = `UPDATE notifications SET class_id = $1, title = $2, description = $3, message = $4,
        file_path = $5, recipient_type = $6, selected_students = $7 WHERE id = $8`
	if _, err := r.db.ExecContext(ctx, query,
		notification.ClassID, notification.Title, notification.Description, notification.Message,
		notification.FilePath, notification.RecipientType, notification.SelectedStudents, notification.ID); err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// Delete removes a notification record.
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

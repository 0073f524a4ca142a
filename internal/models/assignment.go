package models

import "time"

// Assignment represents homework published to a class, with at most one attachment.
type Assignment struct {
	ID          int64     `db:"id" json:"id"`
	ClassID     int64     `db:"class_id" json:"class_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	DueDate     string    `db:"due_date" json:"due_date"`
	FilePath    *string   `db:"file_path" json:"file_path,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AssignmentDetail carries the joined class name for list views.
type AssignmentDetail struct {
	Assignment
	ClassName string `db:"class_name" json:"class_name"`
}

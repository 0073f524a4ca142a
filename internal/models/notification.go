package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RecipientType selects between broadcasting to a whole class and a picked subset.
type RecipientType string

const (
	RecipientAll        RecipientType = "all"
	RecipientParticular RecipientType = "particular"
)

// StudentIDList is stored as a jsonb array of student ids.
type StudentIDList []int64

// Value implements driver.Valuer.
func (l StudentIDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StudentIDList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported student id list type %T", src)
	}
	return json.Unmarshal(raw, l)
}

// Notification represents a message published to a class or to selected students.
type Notification struct {
	ID               int64         `db:"id" json:"id"`
	ClassID          int64         `db:"class_id" json:"class_id"`
	Title            string        `db:"title" json:"title"`
	Description      string        `db:"description" json:"description"`
	Message          *string       `db:"message" json:"message,omitempty"`
	FilePath         *string       `db:"file_path" json:"file_path,omitempty"`
	RecipientType    RecipientType `db:"recipient_type" json:"recipient_type"`
	SelectedStudents StudentIDList `db:"selected_students" json:"selected_students,omitempty"`
	IsRead           bool          `db:"is_read" json:"is_read"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// NotificationDetail carries the joined class name for list views.
type NotificationDetail struct {
	Notification
	ClassName string `db:"class_name" json:"class_name"`
}

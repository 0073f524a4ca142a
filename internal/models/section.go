package models

import "time"

// Section represents a school section with its daily time window.
// Times are stored as "HH:MM" strings, exactly as the portal submits them.
type Section struct {
	ID          int64     `db:"id" json:"id"`
	SectionName string    `db:"section_name" json:"section_name"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

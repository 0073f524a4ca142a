package models

import "time"

// Class represents an academic class bound to a section.
type Class struct {
	ID          int64     `db:"id" json:"id"`
	ClassName   string    `db:"class_name" json:"class_name"`
	SectionID   int64     `db:"section_id" json:"section_id"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClassDetail extends Class with the joined section name for list views.
type ClassDetail struct {
	Class
	SectionName string `db:"section_name" json:"section_name"`
}

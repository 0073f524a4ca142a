package models

import "time"

// Student represents a student profile row. Credentials live on the linked user.
type Student struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	RollNumber  string    `db:"roll_number" json:"roll_number"`
	ClassID     int64     `db:"class_id" json:"class_id"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Address     string    `db:"address" json:"address"`
	DateOfBirth string    `db:"date_of_birth" json:"date_of_birth"`
	BloodGroup  string    `db:"blood_group" json:"blood_group"`
	ParentName  string    `db:"parent_name" json:"parent_name"`
	ParentPhone string    `db:"parent_phone" json:"parent_phone"`
	ParentEmail string    `db:"parent_email" json:"parent_email"`
	PhotoPath   *string   `db:"photo_path" json:"photo_path,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// StudentDetail joins the login username and class name onto the profile.
type StudentDetail struct {
	Student
	Username  string `db:"username" json:"username"`
	ClassName string `db:"class_name" json:"class_name"`
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edupanel/edupanel-go/internal/models"
)

const studentColumns = `st.id, st.user_id, st.first_name, st.last_name, st.roll_number, st.class_id,
        st.email, st.phone, st.address, st.date_of_birth, st.blood_group,
        st.parent_name, st.parent_phone, st.parent_email, st.photo_path, st.created_at`

// StudentRepository manages persistence for students and their login users.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students with username and class name, newest first.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, u.username, c.class_name
        FROM students st JOIN users u ON u.id = st.user_id JOIN classes c ON c.id = st.class_id
        ORDER BY st.created_at DESC`, studentColumns)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListByClass returns the roster of a single class ordered by roll number.
func (r *StudentRepository) ListByClass(ctx context.Context, classID int64) ([]models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, u.username, c.class_name
        FROM students st JOIN users u ON u.id = st.user_id JOIN classes c ON c.id = st.class_id
        WHERE st.class_id = $1 ORDER BY st.roll_number ASC`, studentColumns)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}

// FindByID returns a student with joined detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, u.username, c.class_name
        FROM students st JOIN users u ON u.id = st.user_id JOIN classes c ON c.id = st.class_id
        WHERE st.id = $1`, studentColumns)
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID returns the profile belonging to a login user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, u.username, c.class_name
        FROM students st JOIN users u ON u.id = st.user_id JOIN classes c ON c.id = st.class_id
        WHERE st.user_id = $1`, studentColumns)
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByRollNumber checks roll number uniqueness within a class.
func (r *StudentRepository) ExistsByRollNumber(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM students WHERE class_id = $1 AND roll_number = $2`
	args := []interface{}{classID, rollNumber}
	if excludeID > 0 {
		query += ` AND id <> $3`
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check roll number: %w", err)
	}
	return true, nil
}

// Create inserts the login user and the student profile in one transaction.
func (r *StudentRepository) Create(ctx context.Context, user *models.User, student *models.Student) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student create: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (username, password_hash, full_name, role, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.GetContext(ctx, &user.ID, userQuery, user.Username, user.PasswordHash, user.FullName, user.Role, user.CreatedAt); err != nil {
		return fmt.Errorf("create student user: %w", err)
	}

	student.UserID = user.ID
	const studentQuery = `INSERT INTO students
        (user_id, first_name, last_name, roll_number, class_id, email, phone, address, date_of_birth,
         blood_group, parent_name, parent_phone, parent_email, photo_path, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	if err := tx.GetContext(ctx, &student.ID, studentQuery,
		student.UserID, student.FirstName, student.LastName, student.RollNumber, student.ClassID,
		student.Email, student.Phone, student.Address, student.DateOfBirth, student.BloodGroup,
		student.ParentName, student.ParentPhone, student.ParentEmail, student.PhotoPath, student.CreatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student create: %w", err)
	}
	return nil
}

// Update modifies the profile fields of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET first_name = $1, last_name = $2, roll_number = $3, class_id = $4,
        email = $5, phone = $6, address = $7, date_of_birth = $8, blood_group = $9,
        parent_name = $10, parent_phone = $11, parent_email = $12, photo_path = $13
        WHERE id = $14`
	if _, err := r.db.ExecContext(ctx, query,
		student.FirstName, student.LastName, student.RollNumber, student.ClassID,
		student.Email, student.Phone, student.Address, student.DateOfBirth, student.BloodGroup,
		student.ParentName, student.ParentPhone, student.ParentEmail, student.PhotoPath, student.ID); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes the student and its login user in one transaction.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var userID int64
	if err := tx.GetContext(ctx, &userID, `DELETE FROM students WHERE id = $1 RETURNING user_id`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete student user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student delete: %w", err)
	}
	return nil
}

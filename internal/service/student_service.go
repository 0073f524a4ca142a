package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	ListByClass(ctx context.Context, classID int64) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error)
	ExistsByRollNumber(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *models.User, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type studentUserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// CreateStudentInput carries the fields needed to enroll a student.
type CreateStudentInput struct {
	FirstName   string  `validate:"required"`
	LastName    string  `validate:"required"`
	RollNumber  string  `validate:"required"`
	ClassID     int64   `validate:"required,gt=0"`
	Username    string  `validate:"required,min=3"`
	Password    string  `validate:"required,min=6"`
	Email       string  `validate:"omitempty,email"`
	Phone       string
	Address     string
	DateOfBirth string
	BloodGroup  string
	ParentName  string
	ParentPhone string
	ParentEmail string `validate:"omitempty,email"`
	PhotoPath   *string
}

// UpdateStudentInput carries the editable profile fields of a student. A
// blank Password leaves the stored credential unchanged.
type UpdateStudentInput struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	RollNumber  string `validate:"required"`
	ClassID     int64  `validate:"required,gt=0"`
	Password    string `validate:"omitempty,min=6"`
	Email       string `validate:"omitempty,email"`
	Phone       string
	Address     string
	DateOfBirth string
	BloodGroup  string
	ParentName  string
	ParentPhone string
	ParentEmail string `validate:"omitempty,email"`
	PhotoPath   *string
}

// StudentService implements student enrollment and profile use cases.
type StudentService struct {
	repo      studentRepository
	users     studentUserRepository
	classes   classSectionLookup
	validator *validator.Validate
	logger    *zap.Logger
}

type classSectionLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, users studentUserRepository, classes classSectionLookup, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, users: users, classes: classes, validator: validate, logger: logger}
}

// List returns all students with username and class name.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch students")
	}
	return students, nil
}

// ListByClass returns the students enrolled in a class.
func (s *StudentService) ListByClass(ctx context.Context, classID int64) ([]models.StudentDetail, error) {
	students, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch students")
	}
	return students, nil
}

// Create validates and enrolls a student, creating the linked user account.
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "first name, last name, roll number, class and credentials are required")
	}

	if _, err := s.classes.FindByID(ctx, input.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Selected class does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Username already exists")
	}

	duplicate, err := s.repo.ExistsByRollNumber(ctx, input.ClassID, input.RollNumber, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Roll number already exists in this class")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		FullName:     input.FirstName + " " + input.LastName,
		Role:         models.RoleStudent,
	}
	student := &models.Student{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		RollNumber:  input.RollNumber,
		ClassID:     input.ClassID,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
		BloodGroup:  input.BloodGroup,
		ParentName:  input.ParentName,
		ParentPhone: input.ParentPhone,
		ParentEmail: input.ParentEmail,
		PhotoPath:   input.PhotoPath,
	}
	if err := s.repo.Create(ctx, user, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add student")
	}

	s.logger.Info("student enrolled",
		zap.Int64("student_id", student.ID),
		zap.Int64("class_id", student.ClassID),
		zap.String("roll_number", student.RollNumber))
	return student, nil
}

// Update modifies a student's profile.
func (s *StudentService) Update(ctx context.Context, id int64, input UpdateStudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "first name, last name, roll number and class are required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	duplicate, err := s.repo.ExistsByRollNumber(ctx, input.ClassID, input.RollNumber, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roll number")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Roll number already exists in this class")
	}

	student := existing.Student
	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.RollNumber = input.RollNumber
	student.ClassID = input.ClassID
	student.Email = input.Email
	student.Phone = input.Phone
	student.Address = input.Address
	student.DateOfBirth = input.DateOfBirth
	student.BloodGroup = input.BloodGroup
	student.ParentName = input.ParentName
	student.ParentPhone = input.ParentPhone
	student.ParentEmail = input.ParentEmail
	if input.PhotoPath != nil {
		student.PhotoPath = input.PhotoPath
	}

	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		if err := s.users.UpdatePassword(ctx, student.UserID, string(hash)); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
		}
	}

	s.logger.Info("student updated", zap.Int64("student_id", student.ID))
	return &student, nil
}

// Delete removes a student and the linked user account.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}

// Profile returns the student profile attached to a user account.
func (s *StudentService) Profile(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}
	return student, nil
}

// UpdateProfile modifies the profile attached to a user account.
func (s *StudentService) UpdateProfile(ctx context.Context, userID int64, input UpdateStudentInput) (*models.Student, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}
	return s.Update(ctx, student.ID, input)
}

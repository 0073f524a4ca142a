package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edupanel/edupanel-go/internal/models"
	appErrors "github.com/edupanel/edupanel-go/pkg/errors"
)

type studentRepoMock struct {
	listFn       func(ctx context.Context) ([]models.StudentDetail, error)
	listByClass  func(ctx context.Context, classID int64) ([]models.StudentDetail, error)
	findFn       func(ctx context.Context, id int64) (*models.StudentDetail, error)
	findByUserFn func(ctx context.Context, userID int64) (*models.StudentDetail, error)
	existsRollFn func(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error)
	createFn     func(ctx context.Context, user *models.User, student *models.Student) error
	updateFn     func(ctx context.Context, student *models.Student) error
	deleteFn     func(ctx context.Context, id int64) error
}

func (m *studentRepoMock) List(ctx context.Context) ([]models.StudentDetail, error) {
	return m.listFn(ctx)
}

func (m *studentRepoMock) ListByClass(ctx context.Context, classID int64) ([]models.StudentDetail, error) {
	return m.listByClass(ctx, classID)
}

func (m *studentRepoMock) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	return m.findFn(ctx, id)
}

func (m *studentRepoMock) FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	return m.findByUserFn(ctx, userID)
}

func (m *studentRepoMock) ExistsByRollNumber(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
	return m.existsRollFn(ctx, classID, rollNumber, excludeID)
}

func (m *studentRepoMock) Create(ctx context.Context, user *models.User, student *models.Student) error {
	return m.createFn(ctx, user, student)
}

func (m *studentRepoMock) Update(ctx context.Context, student *models.Student) error {
	return m.updateFn(ctx, student)
}

func (m *studentRepoMock) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type userRepoMock struct {
	existsFn         func(ctx context.Context, username string) (bool, error)
	updatePasswordFn func(ctx context.Context, id int64, passwordHash string) error
}

func (m *userRepoMock) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.existsFn(ctx, username)
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.updatePasswordFn(ctx, id, passwordHash)
}

type classLookupMock struct {
	findFn func(ctx context.Context, id int64) (*models.Class, error)
}

func (m *classLookupMock) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	return m.findFn(ctx, id)
}

func classExists(id int64) *classLookupMock {
	return &classLookupMock{findFn: func(ctx context.Context, classID int64) (*models.Class, error) {
		if classID == id {
			return &models.Class{ID: classID, ClassName: "Grade 5A"}, nil
		}
		return nil, sql.ErrNoRows
	}}
}

func validCreateInput() CreateStudentInput {
	return CreateStudentInput{
		FirstName:  "Asha",
		LastName:   "Verma",
		RollNumber: "21",
		ClassID:    4,
		Username:   "asha.verma",
		Password:   "secret123",
	}
}

func TestStudentServiceCreateHashesPassword(t *testing.T) {
	var savedUser *models.User
	repo := &studentRepoMock{
		existsRollFn: func(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *models.User, student *models.Student) error {
			savedUser = user
			user.ID = 10
			student.ID = 1
			student.UserID = 10
			return nil
		},
	}
	users := &userRepoMock{existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil }}
	svc := NewStudentService(repo, users, classExists(4), nil, zap.NewNop())

	student, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), student.ID)
	require.NotNil(t, savedUser)
	assert.Equal(t, models.RoleStudent, savedUser.Role)
	assert.Equal(t, "Asha Verma", savedUser.FullName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.PasswordHash), []byte("secret123")))
}

func TestStudentServiceCreateRejectsTakenUsername(t *testing.T) {
	repo := &studentRepoMock{}
	users := &userRepoMock{existsFn: func(ctx context.Context, username string) (bool, error) { return true, nil }}
	svc := NewStudentService(repo, users, classExists(4), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Username already exists")
}

func TestStudentServiceCreateRejectsDuplicateRoll(t *testing.T) {
	repo := &studentRepoMock{
		existsRollFn: func(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
			return true, nil
		},
	}
	users := &userRepoMock{existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil }}
	svc := NewStudentService(repo, users, classExists(4), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "Roll number already exists")
}

func TestStudentServiceCreateRejectsUnknownClass(t *testing.T) {
	repo := &studentRepoMock{}
	users := &userRepoMock{existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil }}
	svc := NewStudentService(repo, users, classExists(99), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateKeepsPhotoWhenNotProvided(t *testing.T) {
	photo := "/uploads/photos/abc.jpg"
	var updated *models.Student
	repo := &studentRepoMock{
		findFn: func(ctx context.Context, id int64) (*models.StudentDetail, error) {
			return &models.StudentDetail{Student: models.Student{
				ID: id, FirstName: "Asha", LastName: "Verma", RollNumber: "21", ClassID: 4, PhotoPath: &photo,
			}}, nil
		},
		existsRollFn: func(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
			return false, nil
		},
		updateFn: func(ctx context.Context, student *models.Student) error {
			updated = student
			return nil
		},
	}
	svc := NewStudentService(repo, &userRepoMock{}, classExists(4), nil, zap.NewNop())

	_, err := svc.Update(context.Background(), 1, UpdateStudentInput{
		FirstName:  "Asha",
		LastName:   "Sharma",
		RollNumber: "21",
		ClassID:    4,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Sharma", updated.LastName)
	require.NotNil(t, updated.PhotoPath)
	assert.Equal(t, photo, *updated.PhotoPath)
}

func TestStudentServiceUpdateChangesPasswordWhenProvided(t *testing.T) {
	var hashedFor int64
	var storedHash string
	repo := &studentRepoMock{
		findFn: func(ctx context.Context, id int64) (*models.StudentDetail, error) {
			return &models.StudentDetail{Student: models.Student{
				ID: id, UserID: 42, FirstName: "Asha", LastName: "Verma", RollNumber: "21", ClassID: 4,
			}}, nil
		},
		existsRollFn: func(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
			return false, nil
		},
		updateFn: func(ctx context.Context, student *models.Student) error { return nil },
	}
	users := &userRepoMock{updatePasswordFn: func(ctx context.Context, id int64, passwordHash string) error {
		hashedFor = id
		storedHash = passwordHash
		return nil
	}}
	svc := NewStudentService(repo, users, classExists(4), nil, zap.NewNop())

	_, err := svc.Update(context.Background(), 1, UpdateStudentInput{
		FirstName:  "Asha",
		LastName:   "Verma",
		RollNumber: "21",
		ClassID:    4,
		Password:   "newsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), hashedFor)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newsecret")))
}

func TestStudentServiceUpdateBlankPasswordLeavesHashUntouched(t *testing.T) {
	passwordUpdates := 0
	repo := &studentRepoMock{
		findFn: func(ctx context.Context, id int64) (*models.StudentDetail, error) {
			return &models.StudentDetail{Student: models.Student{
				ID: id, UserID: 42, FirstName: "Asha", LastName: "Verma", RollNumber: "21", ClassID: 4,
			}}, nil
		},
		existsRollFn: func(ctx context.Context, classID int64, rollNumber string, excludeID int64) (bool, error) {
			return false, nil
		},
		updateFn: func(ctx context.Context, student *models.Student) error { return nil },
	}
	users := &userRepoMock{updatePasswordFn: func(ctx context.Context, id int64, passwordHash string) error {
		passwordUpdates++
		return nil
	}}
	svc := NewStudentService(repo, users, classExists(4), nil, zap.NewNop())

	_, err := svc.Update(context.Background(), 1, UpdateStudentInput{
		FirstName:  "Asha",
		LastName:   "Verma",
		RollNumber: "21",
		ClassID:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, passwordUpdates)
}

func TestStudentServiceProfileNotFound(t *testing.T) {
	repo := &studentRepoMock{
		findByUserFn: func(ctx context.Context, userID int64) (*models.StudentDetail, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewStudentService(repo, &userRepoMock{}, classExists(4), nil, zap.NewNop())

	_, err := svc.Profile(context.Background(), 77)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

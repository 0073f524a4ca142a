package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/edupanel-go/internal/models"
)

func TestStudentRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "first_name", "last_name", "roll_number", "class_id",
		"email", "phone", "address", "date_of_birth", "blood_group",
		"parent_name", "parent_phone", "parent_email", "photo_path", "created_at",
		"username", "class_name",
	}).AddRow(1, 10, "Asha", "Verma", "21", 4, "asha@example.com", "123", "Street", "2012-04-09", "O+",
		"R Verma", "456", "rverma@example.com", nil, time.Now(), "asha.verma", "Grade 5A")
	mock.ExpectQuery("SELECT st.id, st.user_id, st.first_name").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "asha.verma", students[0].Username)
	assert.Equal(t, "Grade 5A", students[0].ClassName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("asha.verma", "hash", "Asha Verma", models.RoleStudent, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user := &models.User{Username: "asha.verma", PasswordHash: "hash", FullName: "Asha Verma", Role: models.RoleStudent}
	student := &models.Student{FirstName: "Asha", LastName: "Verma", RollNumber: "21", ClassID: 4}
	err := repo.Create(context.Background(), user, student)
	require.NoError(t, err)
	assert.Equal(t, int64(10), user.ID)
	assert.Equal(t, int64(10), student.UserID)
	assert.Equal(t, int64(1), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM students").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(10))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

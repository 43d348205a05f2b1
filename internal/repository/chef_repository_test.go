package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
)

var chefRowColumns = []string{"id", "username", "email", "password", "is_admin"}

func TestChefRepo_CreateSetsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chef (username, email, password, is_admin)")).
		WithArgs("ana", "ana@example.com", "secret", false).
		WillReturnResult(sqlmock.NewResult(7, 1))

	c := &model.Chef{Username: "ana", Email: "ana@example.com", Password: "secret"}
	require.NoError(t, NewChefRepo(db).Create(context.Background(), c))
	assert.EqualValues(t, 7, c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChefRepo_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO chef").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana'"})

	err = NewChefRepo(db).Create(context.Background(), &model.Chef{Username: "ana"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestChefRepo_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM chef WHERE id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(chefRowColumns))

	_, err = NewChefRepo(db).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChefRepo_SearchEscapesTerm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM chef WHERE username LIKE ? ORDER BY id ASC")).
		WithArgs(`%a\_b\%%`).
		WillReturnRows(sqlmock.NewRows(chefRowColumns).
			AddRow(int64(3), "a_b%", "x@example.com", "pw", true))

	chefs, err := NewChefRepo(db).Search(context.Background(), "a_b%")
	require.NoError(t, err)
	require.Len(t, chefs, 1)
	assert.Equal(t, "a_b%", chefs[0].Username)
	assert.True(t, chefs[0].Admin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChefRepo_ListEmptyTermSorted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, password, is_admin FROM chef ORDER BY username DESC, id ASC")).
		WillReturnRows(sqlmock.NewRows(chefRowColumns))

	chefs, err := NewChefRepo(db).List(context.Background(), "", paging.Options{SortBy: "username", SortDirection: "desc"})
	require.NoError(t, err)
	assert.NotNil(t, chefs)
	assert.Empty(t, chefs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChefRepo_ListRejectsUnknownSort(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewChefRepo(db).List(context.Background(), "", paging.Options{SortBy: "password"})
	assert.ErrorIs(t, err, paging.ErrInvalidSort)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChefRepo_DeleteReferencedChef(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM chef WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnError(&mysql.MySQLError{Number: 1451})

	ok, err := NewChefRepo(db).Delete(context.Background(), 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestChefRepo_DeleteMissingIsFalse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM chef").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := NewChefRepo(db).Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

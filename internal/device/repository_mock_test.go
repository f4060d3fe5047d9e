package device

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	return NewSQLRepository(db), mock
}

func TestUpdate_BuildsOrderedPlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	locID := int64(3)

	mock.ExpectExec(`^UPDATE devices SET name = \$1, location_id = \$2, api_user_id = \$3 WHERE id = \$4$`).
		WithArgs("cam", locID, int64(9), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Update(context.Background(), 5, Changes{Name: ptr("cam"), LocationID: &locID, APIUserID: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_OwnerOnly(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^UPDATE devices SET api_user_id = \$1 WHERE id = \$2$`).
		WithArgs(int64(9), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Update(context.Background(), 5, Changes{APIUserID: 9})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDelete_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM devices WHERE id = \$1$`).
		WithArgs(int64(5)).
		WillReturnError(errors.New("db down"))

	_, err := repo.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleting device")
	assert.Contains(t, err.Error(), "db down")
}

func TestUpdatePassword_RowsAffectedError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^UPDATE devices SET password = \$1 WHERE id = \$2$`).
		WithArgs("h", int64(5)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

	_, err := repo.UpdatePassword(context.Background(), 5, "h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected")
}

func TestGetDetails_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT d\.id, d\.name.*FROM devices d.*WHERE d\.id = \$1$`).
		WithArgs(int64(5)).
		WillReturnError(errors.New("db down"))

	_, err := repo.GetDetails(context.Background(), 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDeviceNotFound)
}

func TestList_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "type", "login", "location", "user"}).
		AddRow(int64(1), "cam", "camera", "admin", "Lab", "alice").
		RowError(0, errors.New("broken row"))
	mock.ExpectQuery(`ORDER BY d\.id$`).WillReturnRows(rows)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken row")
}

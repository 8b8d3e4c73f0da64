package capacity

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var returningColumns = []string{
	"id", "activity_id", "slot_date", "slot_time", "total_seats", "reserved_seats", "created_at", "updated_at",
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func slotRow(reserved int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(returningColumns).
		AddRow(int64(5), int64(1), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "10:00:00", 10, reserved, now, now)
}

func TestReserve_GuardIsInsideUpdate(t *testing.T) {
	repo, mock := newMock(t)
	guarded := regexp.QuoteMeta("UPDATE capacity SET reserved_seats = reserved_seats + $1") + ".*" +
		regexp.QuoteMeta("WHERE id = $2 AND reserved_seats + $3 <= total_seats RETURNING")

	mock.ExpectQuery(guarded).WithArgs(int64(3), int64(5), int64(3)).WillReturnRows(slotRow(3))
	c, err := repo.Reserve(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.ReservedSeats)
	assert.Equal(t, "10:00", c.Time.String())

	// Условие не выполнено: UPDATE не вернул строку
	mock.ExpectQuery(guarded).WithArgs(int64(8), int64(5), int64(8)).WillReturnRows(sqlmock.NewRows(returningColumns))
	_, err = repo.Reserve(context.Background(), 5, 8)
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_NeverBelowZero(t *testing.T) {
	repo, mock := newMock(t)
	guarded := regexp.QuoteMeta("UPDATE capacity SET reserved_seats = reserved_seats - $1") + ".*" +
		regexp.QuoteMeta("WHERE id = $2 AND reserved_seats >= $3 RETURNING")

	mock.ExpectQuery(guarded).WithArgs(int64(2), int64(5), int64(2)).WillReturnRows(slotRow(1))
	c, err := repo.Release(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ReservedSeats)

	mock.ExpectQuery(guarded).WithArgs(int64(4), int64(5), int64(4)).WillReturnRows(sqlmock.NewRows(returningColumns))
	_, err = repo.Release(context.Background(), 5, 4)
	assert.ErrorIs(t, err, ErrInsufficientReserved)

	assert.NoError(t, mock.ExpectationsWereMet())
}

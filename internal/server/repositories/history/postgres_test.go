package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestAppend(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `INSERT\s+INTO\s+history\s*\(user_id,\s*kind,\s*data\)`
	entry := json.RawMessage(`{"date":"2026-01-01T00:00:00Z","weight":70}`)

	mock.ExpectExec(q).WithArgs("u1", "measurement", []byte(entry)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(q).WillReturnError(errors.New("db down"))

	require.NoError(t, repo.Append(context.Background(), "u1", models.HistoryMeasurement, entry))
	assert.ErrorContains(t, repo.Append(context.Background(), "u1", models.HistoryWorkout, entry), "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_SortsByDate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"kind", "data"}).
		AddRow("measurement", []byte(`{"date":"2026-01-03T00:00:00Z","weight":69}`)).
		AddRow("workout", []byte(`{"date":"2026-01-02T00:00:00Z","dayNumber":2,"caloriesBurned":300,"durationMinutes":40}`)).
		AddRow("measurement", []byte(`{"date":"2026-01-01T00:00:00Z","weight":70}`)).
		AddRow("unknown", []byte(`{}`))
	mock.ExpectQuery(`SELECT\s+kind,\s*data\s+FROM\s+history\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u1").WillReturnRows(rows)

	h, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, []models.MeasurementEntry{
		{Date: "2026-01-01T00:00:00Z", Weight: 70},
		{Date: "2026-01-03T00:00:00Z", Weight: 69},
	}, h.Measurements)
	assert.Equal(t, []models.WorkoutEntry{
		{Date: "2026-01-02T00:00:00Z", DayNumber: 2, CaloriesBurned: 300, DurationMinutes: 40},
	}, h.Workouts)
}

func TestList_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `FROM\s+history`

	mock.ExpectQuery(q).WillReturnError(errors.New("db down"))
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"kind", "data"}).AddRow("workout", []byte(`{`)))

	_, err := repo.List(context.Background(), "u1")
	assert.ErrorContains(t, err, "db down")

	_, err = repo.List(context.Background(), "u1")
	assert.ErrorContains(t, err, "decode workout")
}

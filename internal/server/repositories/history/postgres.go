package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophfit/internal/dbx"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID string, kind models.HistoryKind, entry json.RawMessage) error {
	query := `
		INSERT INTO history (user_id, kind, data)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, string(kind), []byte(entry)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) (models.History, error) {
	query := `
		SELECT kind, data FROM history
		WHERE user_id = $1
		ORDER BY id
	`
	var h models.History

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return h, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind string
			data []byte
		)
		if err := rows.Scan(&kind, &data); err != nil {
			return h, fmt.Errorf("db error: %w", err)
		}

		switch models.HistoryKind(kind) {
		case models.HistoryMeasurement:
			var m models.MeasurementEntry
			if err := json.Unmarshal(data, &m); err != nil {
				return h, fmt.Errorf("decode measurement: %w", err)
			}
			h.Measurements = append(h.Measurements, m)
		case models.HistoryWorkout:
			var w models.WorkoutEntry
			if err := json.Unmarshal(data, &w); err != nil {
				return h, fmt.Errorf("decode workout: %w", err)
			}
			h.Workouts = append(h.Workouts, w)
		}
	}
	if err := rows.Err(); err != nil {
		return h, fmt.Errorf("db error: %w", err)
	}

	models.SortMeasurements(h.Measurements)
	models.SortWorkouts(h.Workouts)
	return h, nil
}

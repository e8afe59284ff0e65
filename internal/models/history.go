package models

import (
	"slices"
	"time"
)

// HistoryKind tags an append-only history entry.
type HistoryKind string

const (
	HistoryMeasurement HistoryKind = "measurement"
	HistoryWorkout     HistoryKind = "workout"
)

// MeasurementEntry is a weight reading. Date is RFC 3339.
type MeasurementEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// WorkoutEntry records a completed plan day.
type WorkoutEntry struct {
	Date            string  `json:"date"`
	DayNumber       int     `json:"dayNumber"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	DurationMinutes int     `json:"durationMinutes"`
}

// History is the full log of a user.
type History struct {
	Measurements []MeasurementEntry `json:"measurements"`
	Workouts     []WorkoutEntry     `json:"workouts"`
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SortMeasurements orders entries by date, not insertion order.
func SortMeasurements(m []MeasurementEntry) {
	slices.SortStableFunc(m, func(a, b MeasurementEntry) int {
		return parseDate(a.Date).Compare(parseDate(b.Date))
	})
}

// SortWorkouts orders entries by date, not insertion order.
func SortWorkouts(w []WorkoutEntry) {
	slices.SortStableFunc(w, func(a, b WorkoutEntry) int {
		return parseDate(a.Date).Compare(parseDate(b.Date))
	})
}

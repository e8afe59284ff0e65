package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_PreservesUnknownFields(t *testing.T) {
	in := []byte(`{"name":"Ana","weight":61.5,"hasPaid":true,"favoriteSport":"surf","prefs":{"units":"metric"}}`)

	var p Profile
	require.NoError(t, json.Unmarshal(in, &p))
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, 61.5, p.Weight)
	assert.True(t, p.HasPaid)
	require.Len(t, p.Extra, 2)
	assert.JSONEq(t, `"surf"`, string(p.Extra["favoriteSport"]))

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "surf", back["favoriteSport"])
	assert.Equal(t, map[string]any{"units": "metric"}, back["prefs"])
	assert.Equal(t, "Ana", back["name"])
	assert.Equal(t, true, back["hasPaid"])
}

func TestProfile_NoExtra(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Bo"}`), &p))
	assert.Nil(t, p.Extra)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"Bo"`)
}

func TestProfile_KnownFieldWinsOverExtra(t *testing.T) {
	p := Profile{Name: "Real", Extra: map[string]json.RawMessage{"name": json.RawMessage(`"stale"`)}}
	out, err := json.Marshal(p)
	require.NoError(t, err)

	var back Profile
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "Real", back.Name)
}

func TestMergeLatch(t *testing.T) {
	paid := Profile{HasPaid: true, PaymentDate: "2025-01-02T00:00:00Z"}

	got := MergeLatch(paid, Profile{Name: "x"})
	assert.True(t, got.HasPaid)
	assert.Equal(t, paid.PaymentDate, got.PaymentDate)

	got = MergeLatch(paid, Profile{PaymentDate: "2025-03-01T00:00:00Z"})
	assert.Equal(t, "2025-03-01T00:00:00Z", got.PaymentDate)

	got = MergeLatch(Profile{}, Profile{Name: "y"})
	assert.False(t, got.HasPaid)
}

func TestSortHistoryByDate(t *testing.T) {
	m := []MeasurementEntry{
		{Date: "2025-02-01T10:00:00Z", Weight: 79},
		{Date: "2025-01-01T10:00:00Z", Weight: 81},
		{Date: "2025-01-15T10:00:00Z", Weight: 80},
	}
	SortMeasurements(m)
	assert.Equal(t, []float64{81, 80, 79}, []float64{m[0].Weight, m[1].Weight, m[2].Weight})

	w := []WorkoutEntry{
		{Date: "2025-01-03T00:00:00Z", DayNumber: 3},
		{Date: "2025-01-01T00:00:00Z", DayNumber: 1},
	}
	SortWorkouts(w)
	assert.Equal(t, 1, w[0].DayNumber)
}

func TestPlan_CloneIsDeep(t *testing.T) {
	p := &Plan{
		ID:    "p1",
		Goals: []string{"a"},
		DailyPlans: []DailyPlan{{
			Day:       1,
			Exercises: []Exercise{{Name: "Squat"}},
			Meals:     []Meal{{Name: "Lunch", Items: []string{"rice"}}},
		}},
	}
	c := p.Clone()
	c.Goals[0] = "b"
	c.DailyPlans[0].Exercises[0].Name = "Lunge"
	c.DailyPlans[0].Meals[0].Items[0] = "beans"

	assert.Equal(t, "a", p.Goals[0])
	assert.Equal(t, "Squat", p.DailyPlans[0].Exercises[0].Name)
	assert.Equal(t, "rice", p.DailyPlans[0].Meals[0].Items[0])

	d, ok := c.Day(1)
	require.True(t, ok)
	assert.Equal(t, "Lunge", d.Exercises[0].Name)
	_, ok = c.Day(9)
	assert.False(t, ok)

	var nilPlan *Plan
	assert.Nil(t, nilPlan.Clone())
}

package session

import "github.com/dmitrijs2005/gophfit/internal/models"

// Snapshot is the mirror record. Fields after Workouts were added later and
// are omitted when empty so older readers see the shape they expect.
type Snapshot struct {
	Step         Step                      `json:"step"`
	Profile      *models.Profile           `json:"profile"`
	Plan         *models.Plan              `json:"plan"`
	Measurements []models.MeasurementEntry `json:"measurements"`
	Workouts     []models.WorkoutEntry     `json:"workouts"`

	Analysis        *models.Analysis `json:"analysis,omitempty"`
	Guest           bool             `json:"guest,omitempty"`
	OwnerID         string           `json:"ownerId,omitempty"`
	PendingPlanSync bool             `json:"pendingPlanSync,omitempty"`
}

// Snapshot captures the persistable part of s. Identity is not persisted.
func (s State) Snapshot() Snapshot {
	c := s.clone()
	sn := Snapshot{
		Step:            c.Step,
		Profile:         c.Profile,
		Plan:            c.Plan,
		Measurements:    c.Measurements,
		Workouts:        c.Workouts,
		Analysis:        c.Analysis,
		Guest:           c.Guest,
		OwnerID:         c.OwnerID(),
		PendingPlanSync: c.PendingPlanSync,
	}
	if sn.Measurements == nil {
		sn.Measurements = []models.MeasurementEntry{}
	}
	if sn.Workouts == nil {
		sn.Workouts = []models.WorkoutEntry{}
	}
	return sn
}

// Restore rebuilds a state from a snapshot. Unknown steps fall back to the
// landing step.
func Restore(sn Snapshot) State {
	st := State{
		Step:            sn.Step,
		Profile:         sn.Profile,
		Analysis:        sn.Analysis,
		Plan:            sn.Plan,
		Measurements:    sn.Measurements,
		Workouts:        sn.Workouts,
		Guest:           sn.Guest,
		PendingPlanSync: sn.PendingPlanSync,
	}.clone()
	if !st.Step.Valid() {
		st.Step = LandingStep(st.Profile, st.Plan)
	}
	models.SortMeasurements(st.Measurements)
	models.SortWorkouts(st.Workouts)
	return st
}

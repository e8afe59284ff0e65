// Package session holds the in-memory Session State of the client and the
// snapshot format persisted by the local mirror.
package session

import (
	"slices"

	"github.com/dmitrijs2005/gophfit/internal/models"
)

// Step is the screen the user is on.
type Step string

const (
	StepHome       Step = "HOME"
	StepAuth       Step = "AUTH"
	StepOnboarding Step = "ONBOARDING"
	StepPayment    Step = "PAYMENT"
	StepUpload     Step = "UPLOAD"
	StepAnalyzing  Step = "ANALYZING"
	StepResults    Step = "RESULTS"
	StepPlan       Step = "PLAN"
	StepProgress   Step = "PROGRESS"
)

// Valid reports whether s is one of the known steps.
func (s Step) Valid() bool {
	switch s {
	case StepHome, StepAuth, StepOnboarding, StepPayment, StepUpload,
		StepAnalyzing, StepResults, StepPlan, StepProgress:
		return true
	}
	return false
}

// Identity is the signed-in remote user.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type State struct {
	Step            Step
	Profile         *models.Profile
	Analysis        *models.Analysis
	Plan            *models.Plan
	Measurements    []models.MeasurementEntry
	Workouts        []models.WorkoutEntry
	Identity        *Identity
	Guest           bool
	PendingPlanSync bool
}

// Initial is the state of a fresh client.
func Initial() State {
	return State{Step: StepHome}
}

// SetProfile replaces the profile, keeping the payment latch of the current one.
func (s *State) SetProfile(p models.Profile) {
	if s.Profile != nil {
		p = models.MergeLatch(*s.Profile, p)
	}
	s.Profile = &p
}

// Paid reports whether the payment latch is set.
func (s State) Paid() bool {
	return s.Profile != nil && s.Profile.HasPaid
}

// OwnerID is the user id the state belongs to, empty for guests and anonymous users.
func (s State) OwnerID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.UserID
}

func (s State) clone() State {
	c := s
	if s.Profile != nil {
		p := *s.Profile
		c.Profile = &p
	}
	if s.Analysis != nil {
		a := *s.Analysis
		a.FocusAreas = slices.Clone(a.FocusAreas)
		c.Analysis = &a
	}
	c.Plan = s.Plan.Clone()
	c.Measurements = slices.Clone(s.Measurements)
	c.Workouts = slices.Clone(s.Workouts)
	if s.Identity != nil {
		id := *s.Identity
		c.Identity = &id
	}
	return c
}

// LandingStep picks where a restored session resumes: the plan when there is
// one, the upload when paid, the payment gate when onboarded, onboarding otherwise.
func LandingStep(profile *models.Profile, plan *models.Plan) Step {
	switch {
	case plan != nil:
		return StepPlan
	case profile != nil && profile.HasPaid:
		return StepUpload
	case profile != nil:
		return StepPayment
	default:
		return StepOnboarding
	}
}

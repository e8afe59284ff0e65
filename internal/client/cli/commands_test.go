package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfit/internal/client/pipeline"
	"github.com/dmitrijs2005/gophfit/internal/client/planner"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

// stubAnswers feeds answers to the text and number prompts in order.
func stubAnswers(t *testing.T, answers ...string) {
	t.Helper()
	origST, origGN := getSimpleText, getNumber
	next := func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		s := answers[0]
		answers = answers[1:]
		return s, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getNumber = func(_ *bufio.Reader, _ string, _ io.Writer) (float64, error) {
		s, err := next()
		if err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getNumber = origGN
	})
}

func stubMedia(t *testing.T, err error) {
	t.Helper()
	orig := readMedia
	readMedia = func(string) ([]byte, string, error) {
		if err != nil {
			return nil, "", err
		}
		return []byte("img"), "image/jpeg", nil
	}
	t.Cleanup(func() { readMedia = orig })
}

func guestApp(t *testing.T, gen *fakeGenerator) (*App, *bytes.Buffer) {
	t.Helper()
	var g planner.Generator
	if gen != nil {
		g = gen
	}
	app, out := newTestApp(t, nil, g)
	require.NoError(t, app.Guest(context.Background(), nil))
	out.Reset()
	return app, out
}

func onboardedGuest(t *testing.T, gen *fakeGenerator) (*App, *bytes.Buffer) {
	t.Helper()
	app, out := guestApp(t, gen)
	app.sess.Update(func(s *session.State) {
		s.Profile = &models.Profile{
			Name: "Ana", BirthDate: "01/01/1990", Gender: models.GenderFemale,
			Height: 165, Weight: 60, ActivityLevel: models.ActivityModerate, HasPaid: true,
		}
		s.Step = session.StepUpload
	})
	return app, out
}

func TestOnboard_GuestFlow(t *testing.T) {
	app, out := guestApp(t, nil)
	stubAnswers(t, "Ana", "01/01/1990", "Female", "165", "60", "moderate", "", "", "SP")

	require.NoError(t, app.Onboard(context.Background(), nil))

	st := app.sess.Get()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Ana", st.Profile.Name)
	assert.Equal(t, models.GenderFemale, st.Profile.Gender)
	assert.Equal(t, 60.0, st.Profile.Weight)
	assert.Equal(t, "Brasil", st.Profile.Country)
	assert.Equal(t, session.StepPayment, st.Step)
	require.Len(t, st.Measurements, 1)
	assert.Contains(t, out.String(), "Profile saved.")

	require.NoError(t, app.Pay(context.Background(), nil))
	assert.True(t, app.sess.Get().Paid())
	assert.Equal(t, session.StepUpload, app.sess.Get().Step)

	out.Reset()
	require.NoError(t, app.Pay(context.Background(), nil))
	assert.Contains(t, out.String(), "Already unlocked.")
}

func TestOnboard_AgainKeepsUnaskedFields(t *testing.T) {
	store := newFakeStore()
	app, _ := newTestApp(t, store, nil)
	var current models.Profile
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ana","weight":62,"height":165,"language":"en",
		"hasPaid":true,"paymentDate":"2025-01-01T00:00:00Z","team":"blue"}`), &current))
	app.sess.Replace(session.State{
		Step:         session.StepHome,
		Identity:     &session.Identity{UserID: "u1", Email: "ana@example.com"},
		Profile:      &current,
		Measurements: []models.MeasurementEntry{{Date: "2025-01-01T00:00:00Z", Weight: 62}},
	})
	stubAnswers(t, "Ana Maria", "01/01/1990", "Female", "165", "60", "moderate", "", "", "SP")

	require.NoError(t, app.Onboard(context.Background(), nil))

	st := app.sess.Get()
	assert.Equal(t, "Ana Maria", st.Profile.Name)
	assert.Equal(t, "en", st.Profile.Language)
	assert.True(t, st.Paid())
	assert.Len(t, st.Measurements, 2)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(store.profile, &stored))
	assert.Equal(t, "blue", stored["team"])
	assert.Equal(t, true, stored["hasPaid"])
	assert.Equal(t, "2025-01-01T00:00:00Z", stored["paymentDate"])
	assert.Equal(t, "ana@example.com", stored["email"])
}

func TestOnboard_Validation(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
	}{
		{"bad birth date", []string{"Ana", "1990-01-01"}},
		{"bad gender", []string{"Ana", "01/01/1990", "robot"}},
		{"bad activity", []string{"Ana", "01/01/1990", "male", "180", "80", "lazy"}},
		{"zero weight", []string{"Ana", "01/01/1990", "male", "180", "0", "active", "", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := guestApp(t, nil)
			stubAnswers(t, tt.answers...)
			err := app.Onboard(context.Background(), nil)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Nil(t, app.sess.Get().Profile)
		})
	}
}

func TestOnboard_RequiresSession(t *testing.T) {
	app, _ := newTestApp(t, nil, nil)
	assert.ErrorIs(t, app.Onboard(context.Background(), nil), errNotSignedIn)
}

func TestPay_SignedInOpensCheckout(t *testing.T) {
	store := newFakeStore()
	store.checkoutURL = "https://pay.example/cs_1"
	app, out := newTestApp(t, store, nil)
	app.sess.Replace(session.State{
		Step:     session.StepPayment,
		Identity: &session.Identity{UserID: "u1", Email: "a@b.c"},
		Profile:  &models.Profile{Name: "A", Weight: 70, Height: 170},
	})

	require.NoError(t, app.Pay(context.Background(), nil))
	assert.Contains(t, out.String(), "https://pay.example/cs_1")
	assert.False(t, app.sess.Get().Paid(), "paid only after the provider redirects back")
}

func TestPay_NoProfile(t *testing.T) {
	app, _ := guestApp(t, nil)
	assert.ErrorIs(t, app.Pay(context.Background(), nil), pipeline.ErrNoProfile)
}

func TestResume_AppliesPaymentMarker(t *testing.T) {
	store := newFakeStore()
	store.user = &remote.User{ID: "u1", Email: "a@b.c"}
	require.NoError(t, store.PutProfile(context.Background(), models.Profile{Name: "A", Weight: 70, Height: 170}))
	app, out := newTestApp(t, store, nil)

	require.NoError(t, app.Resume(context.Background(), []string{"https://app.example/?collection_status=approved"}))
	assert.True(t, app.sess.Get().Paid())
	assert.Contains(t, out.String(), "Continue at UPLOAD.")

	assert.ErrorIs(t, app.Resume(context.Background(), nil), errUsage)
}

func TestAnalyzeAndPlan(t *testing.T) {
	gen := &fakeGenerator{
		analysis: &models.Analysis{BodyType: models.BodyMesomorph, EstimatedBodyFat: 24, FocusAreas: []string{"core"}},
		plan:     samplePlan(),
	}
	app, out := onboardedGuest(t, gen)
	stubMedia(t, nil)

	require.NoError(t, app.Analyze(context.Background(), []string{"me.jpg"}))
	st := app.sess.Get()
	require.NotNil(t, st.Analysis)
	assert.Equal(t, session.StepResults, st.Step)
	assert.Contains(t, out.String(), "Body type: Mesomorph")

	out.Reset()
	require.NoError(t, app.Plan(context.Background(), nil))
	st = app.sess.Get()
	require.NotNil(t, st.Plan)
	assert.Equal(t, session.StepPlan, st.Step)
	assert.Contains(t, out.String(), "Day 1: Upper")

	out.Reset()
	require.NoError(t, app.Day(context.Background(), []string{"1"}))
	assert.Contains(t, out.String(), "1. Push-up 3x12")
	assert.Contains(t, out.String(), "1. Oats: 400 kcal")

	assert.ErrorIs(t, app.Day(context.Background(), []string{"9"}), errUsage)
	assert.ErrorIs(t, app.Day(context.Background(), []string{"x"}), errUsage)
}

func TestAnalyze_Guards(t *testing.T) {
	app, _ := newTestApp(t, nil, nil)
	assert.ErrorIs(t, app.Analyze(context.Background(), []string{"me.jpg"}), errNoAI)

	app, _ = guestApp(t, &fakeGenerator{})
	assert.ErrorIs(t, app.Analyze(context.Background(), []string{"me.jpg"}), pipeline.ErrNoProfile)
	assert.ErrorIs(t, app.Analyze(context.Background(), nil), errUsage)

	app.sess.Update(func(s *session.State) { s.Profile = &models.Profile{Weight: 60, Height: 160} })
	assert.ErrorIs(t, app.Analyze(context.Background(), []string{"me.jpg"}), errNotPaid)

	assert.ErrorIs(t, app.Plan(context.Background(), nil), pipeline.ErrNoAnalysis)
}

func TestAnalyze_GeneratorError(t *testing.T) {
	boom := errors.New("boom")
	app, _ := onboardedGuest(t, &fakeGenerator{err: boom})
	stubMedia(t, nil)

	assert.ErrorIs(t, app.Analyze(context.Background(), []string{"me.jpg"}), boom)
	assert.Nil(t, app.sess.Get().Analysis)
	assert.Equal(t, session.StepUpload, app.sess.Get().Step)
}

func withPlan(t *testing.T, gen *fakeGenerator) (*App, *bytes.Buffer) {
	t.Helper()
	app, out := onboardedGuest(t, gen)
	app.sess.Update(func(s *session.State) {
		s.Analysis = &models.Analysis{EstimatedBodyFat: 15}
		s.Plan = samplePlan()
		s.Step = session.StepPlan
	})
	return app, out
}

func TestSwapMealWorkout(t *testing.T) {
	gen := &fakeGenerator{
		exercise: &models.Exercise{Name: "Dips", Sets: 4, Reps: "8"},
		meal:     &models.Meal{Name: "Eggs", Calories: 390},
		workout: &models.WorkoutRevision{
			WorkoutFocus:  "Push",
			Exercises:     []models.Exercise{{Name: "Bench", Sets: 5, Reps: "5"}},
			TotalCalories: 410,
		},
	}
	app, _ := withPlan(t, gen)
	ctx := context.Background()

	require.NoError(t, app.Swap(ctx, []string{"1", "1"}))
	day, _ := app.sess.Get().Plan.Day(1)
	assert.Equal(t, "Dips", day.Exercises[0].Name)

	require.NoError(t, app.Meal(ctx, []string{"1", "1"}))
	day, _ = app.sess.Get().Plan.Day(1)
	assert.Equal(t, "Eggs", day.Meals[0].Name)

	require.NoError(t, app.Workout(ctx, []string{"1"}))
	day, _ = app.sess.Get().Plan.Day(1)
	assert.Equal(t, "Push", day.WorkoutFocus)
	assert.Equal(t, 410.0, day.TotalCalories)
	assert.Equal(t, "Eggs", day.Meals[0].Name, "meals survive a workout regeneration")

	assert.ErrorIs(t, app.Swap(ctx, []string{"1", "5"}), errUsage)
	assert.ErrorIs(t, app.Meal(ctx, []string{"3", "1"}), errUsage)
	assert.Equal(t, session.StepPlan, app.sess.Get().Step)
}

func TestEditDay_LeavesPlanOnError(t *testing.T) {
	boom := errors.New("boom")
	app, _ := withPlan(t, &fakeGenerator{err: boom})

	assert.ErrorIs(t, app.Swap(context.Background(), []string{"1", "1"}), boom)
	day, _ := app.sess.Get().Plan.Day(1)
	assert.Equal(t, "Push-up", day.Exercises[0].Name)
}

func TestWeightLogProgress(t *testing.T) {
	app, out := withPlan(t, &fakeGenerator{})
	ctx := context.Background()

	require.NoError(t, app.Weight(ctx, []string{"59,5"}))
	require.NoError(t, app.Log(ctx, []string{"1"}))
	require.NoError(t, app.Log(ctx, []string{"9", "30", "150"}))

	st := app.sess.Get()
	require.Len(t, st.Measurements, 1)
	assert.Equal(t, 59.5, st.Measurements[0].Weight)
	require.Len(t, st.Workouts, 2)
	assert.Equal(t, 45, st.Workouts[0].DurationMinutes)
	assert.Equal(t, 320.0, st.Workouts[0].CaloriesBurned)
	assert.Equal(t, 150.0, st.Workouts[1].CaloriesBurned)

	assert.ErrorIs(t, app.Log(ctx, []string{"9"}), common.ErrorValidation)
	assert.ErrorIs(t, app.Weight(ctx, []string{"heavy"}), errUsage)
	assert.ErrorIs(t, app.Weight(ctx, []string{"-1"}), common.ErrorValidation)

	out.Reset()
	require.NoError(t, app.Progress(ctx, nil))
	assert.Equal(t, session.StepProgress, app.sess.Get().Step)
	assert.Contains(t, out.String(), "59.5 kg")
	assert.Contains(t, out.String(), "2 workouts, 470 kcal burned")
}

func TestProgress_Empty(t *testing.T) {
	app, out := guestApp(t, nil)
	require.NoError(t, app.Progress(context.Background(), nil))
	assert.Contains(t, out.String(), "No history yet.")
}

func TestStatus(t *testing.T) {
	app, out := withPlan(t, &fakeGenerator{})
	require.NoError(t, app.Status(context.Background(), nil))

	s := out.String()
	assert.Contains(t, s, "Step: PLAN")
	assert.Contains(t, s, "Guest mode")
	assert.Contains(t, s, "Ana, 165 cm")
	assert.Contains(t, s, "lean bulk")
	assert.Contains(t, s, "Active plan: Recomposition")
}

func TestFoodAndForm(t *testing.T) {
	gen := &fakeGenerator{
		meal:   &models.Meal{Name: "Rice and beans", Calories: 520, Protein: 18, Items: []string{"rice", "beans"}},
		advice: "Keep your back straight.",
	}
	app, out := guestApp(t, gen)
	stubMedia(t, nil)
	ctx := context.Background()

	require.NoError(t, app.Food(ctx, []string{"plate.jpg"}))
	assert.Contains(t, out.String(), "Rice and beans: 520 kcal")
	assert.Contains(t, out.String(), "rice, beans")

	require.NoError(t, app.Form(ctx, []string{"squat.mp4", "back", "squat"}))
	assert.Equal(t, "back squat", gen.formExercise)
	assert.Contains(t, out.String(), "Keep your back straight.")

	assert.ErrorIs(t, app.Food(ctx, nil), errUsage)
	assert.ErrorIs(t, app.Form(ctx, []string{"squat.mp4"}), errUsage)
}

func TestFood_ReadError(t *testing.T) {
	missing := errors.New("no such file")
	app, _ := guestApp(t, &fakeGenerator{})
	stubMedia(t, missing)
	assert.ErrorIs(t, app.Food(context.Background(), []string{"x.jpg"}), missing)
}

func TestChat_KeepsHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "Drink water."}
	app, out := guestApp(t, gen)
	ctx := context.Background()

	require.NoError(t, app.Chat(ctx, []string{"how", "to", "recover?"}))
	assert.Empty(t, gen.history)
	assert.Contains(t, out.String(), "Drink water.")

	orig := getMultiline
	getMultiline = func(*bufio.Reader, string, io.Writer) (string, error) { return "and sleep?", nil }
	t.Cleanup(func() { getMultiline = orig })

	require.NoError(t, app.Chat(ctx, nil))
	assert.Equal(t, []models.ChatMessage{
		{Role: "user", Content: "how to recover?"},
		{Role: "model", Content: "Drink water."},
	}, gen.history)
	assert.Len(t, app.chat, 4)
}

func TestChat_Errors(t *testing.T) {
	app, _ := newTestApp(t, nil, nil)
	assert.ErrorIs(t, app.Chat(context.Background(), []string{"hi"}), errNoAI)

	boom := errors.New("boom")
	app, _ = guestApp(t, &fakeGenerator{err: boom})
	assert.ErrorIs(t, app.Chat(context.Background(), []string{"hi"}), boom)
	assert.Empty(t, app.chat)
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfit/internal/client/mirror"
	"github.com/dmitrijs2005/gophfit/internal/client/pipeline"
	"github.com/dmitrijs2005/gophfit/internal/client/planner"
	"github.com/dmitrijs2005/gophfit/internal/client/reconcile"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

// memKV is an in-memory mirror store.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeStore is a remote backend with accounts, checkout and a single user's data.
type fakeStore struct {
	remote.Listeners

	mu       sync.Mutex
	accounts map[string]string
	user     *remote.User
	profile  json.RawMessage
	plan     *models.Plan
	history  models.History

	signInErr   error
	checkoutURL string
	signOuts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[string]string{}}
}

func (f *fakeStore) GetSession(context.Context) (*remote.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeStore) GetProfile(context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, nil
}

func (f *fakeStore) PutProfile(_ context.Context, p models.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = b
	return nil
}

func (f *fakeStore) GetActivePlan(context.Context) (*models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plan.Clone(), nil
}

func (f *fakeStore) DeactivateAllPlans(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plan = nil
	return nil
}

func (f *fakeStore) InsertPlan(_ context.Context, p *models.Plan, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if active {
		f.plan = p.Clone()
	}
	return nil
}

func (f *fakeStore) AppendHistory(_ context.Context, kind models.HistoryKind, e any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch kind {
	case models.HistoryMeasurement:
		f.history.Measurements = append(f.history.Measurements, e.(models.MeasurementEntry))
	case models.HistoryWorkout:
		f.history.Workouts = append(f.history.Workouts, e.(models.WorkoutEntry))
	}
	return nil
}

func (f *fakeStore) GetHistory(context.Context) (models.History, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.History{
		Measurements: append([]models.MeasurementEntry(nil), f.history.Measurements...),
		Workouts:     append([]models.WorkoutEntry(nil), f.history.Workouts...),
	}, nil
}

func (f *fakeStore) SignUp(_ context.Context, email, password string) (*remote.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return nil, errors.New("already registered")
	}
	f.accounts[email] = password
	f.user = &remote.User{ID: "u-" + email, Email: email}
	return f.user, nil
}

func (f *fakeStore) SignIn(_ context.Context, email, password string) (*remote.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return nil, remote.ErrUnauthorized
	}
	f.user = &remote.User{ID: "u-" + email, Email: email}
	return f.user, nil
}

func (f *fakeStore) SignOut(context.Context) error {
	f.mu.Lock()
	f.user = nil
	f.signOuts++
	f.mu.Unlock()
	f.Emit(remote.SignedOut, nil)
	return nil
}

func (f *fakeStore) CreateCheckout(context.Context) (string, error) {
	return f.checkoutURL, nil
}

// fakeGenerator returns canned AI answers and records what it was asked.
type fakeGenerator struct {
	planner.Generator

	analysis *models.Analysis
	plan     *models.Plan
	meal     *models.Meal
	exercise *models.Exercise
	workout  *models.WorkoutRevision
	reply    string
	advice   string
	err      error

	history      []models.ChatMessage
	formExercise string
}

func (g *fakeGenerator) AnalyzeImage(context.Context, []byte, string) (*models.Analysis, error) {
	return g.analysis, g.err
}

func (g *fakeGenerator) GeneratePlan(context.Context, models.Analysis, models.Profile) (*models.Plan, error) {
	return g.plan.Clone(), g.err
}

func (g *fakeGenerator) RegenerateMeal(context.Context, models.Meal, models.Profile) (*models.Meal, error) {
	return g.meal, g.err
}

func (g *fakeGenerator) RegenerateExercise(context.Context, models.Exercise, models.Profile, string) (*models.Exercise, error) {
	return g.exercise, g.err
}

func (g *fakeGenerator) RegenerateWorkout(context.Context, int, string, models.Profile) (*models.WorkoutRevision, error) {
	return g.workout, g.err
}

func (g *fakeGenerator) SendChatMessage(_ context.Context, history []models.ChatMessage, _ string) (string, error) {
	g.history = history
	return g.reply, g.err
}

func (g *fakeGenerator) AnalyzeFood(context.Context, []byte, string) (*models.Meal, error) {
	return g.meal, g.err
}

func (g *fakeGenerator) AnalyzeWorkoutVideo(_ context.Context, _ []byte, _ string, exercise string) (string, error) {
	g.formExercise = exercise
	return g.advice, g.err
}

// newTestApp builds an App over in-memory collaborators. store may be nil.
func newTestApp(t *testing.T, store remote.Store, gen planner.Generator) (*App, *bytes.Buffer) {
	t.Helper()

	l := logging.NewNopLogger()
	sess := session.NewStore()
	m := mirror.New(&memKV{}, l)
	out := &bytes.Buffer{}

	app := &App{
		logger:    l,
		sess:      sess,
		store:     store,
		generator: gen,
		reader:    bufio.NewReader(strings.NewReader("")),
		out:       out,
		mode:      ModeDisabled,
		recon:     reconcile.New(sess, m, store, l),
		pipe:      pipeline.New(sess, m, store, l),
	}
	return app, out
}

func samplePlan() *models.Plan {
	return &models.Plan{
		Goal:         "Recomposition",
		DurationDays: 2,
		DailyPlans: []models.DailyPlan{
			{
				Day: 1, WorkoutFocus: "Upper", DurationMin: 45, TotalCalories: 320,
				Exercises: []models.Exercise{{Name: "Push-up", Sets: 3, Reps: "12"}},
				Meals:     []models.Meal{{Name: "Oats", Calories: 400, Protein: 20}},
			},
			{Day: 2, WorkoutFocus: "Lower", DurationMin: 50, TotalCalories: 380},
		},
	}
}

func TestIsLoggedIn(t *testing.T) {
	app, _ := newTestApp(t, nil, nil)
	assert.False(t, app.isLoggedIn())

	app.sess.Update(func(s *session.State) { s.Guest = true })
	assert.True(t, app.isLoggedIn())

	app.sess.Replace(session.State{Step: session.StepHome, Identity: &session.Identity{UserID: "u1"}})
	assert.True(t, app.isLoggedIn())
}

func TestSetMode_ChangesAndPrintsOnce(t *testing.T) {
	app, out := newTestApp(t, nil, nil)

	app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode())
	assert.Contains(t, out.String(), "Switched to online mode")

	out.Reset()
	app.setMode(ModeOnline)
	assert.Empty(t, out.String(), "no output when mode doesn't change")

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.Mode())
	assert.Contains(t, out.String(), "offline")
}

func TestGetStatus(t *testing.T) {
	app, _ := newTestApp(t, nil, nil)
	assert.Equal(t, "(disabled HOME)", app.getStatus())

	app.sess.Replace(session.State{Step: session.StepPlan, Guest: true})
	assert.Equal(t, "(guest disabled PLAN)", app.getStatus())

	app.sess.Replace(session.State{Step: session.StepUpload, Identity: &session.Identity{UserID: "u1", Email: "a@b.c"}})
	app.setMode(ModeOnline)
	assert.Equal(t, "(a@b.c online UPLOAD)", app.getStatus())
}

type flakyPinger struct {
	mu  sync.Mutex
	err error
}

func (p *flakyPinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *flakyPinger) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	app, _ := newTestApp(t, nil, nil)
	app.out = &syncBuffer{}
	p := &flakyPinger{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, p, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	p.set(errors.New("down"))
	require.Eventually(t, func() bool { return app.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestStart_PrintsNotices(t *testing.T) {
	store := newFakeStore()
	store.user = &remote.User{ID: "u1", Email: "a@b.c"}
	store.profile = json.RawMessage(`{"name":"Ana","weight":60,"height":165}`)

	app, out := newTestApp(t, store, nil)
	res := app.start(context.Background(), "https://app.example/?status=approved")

	assert.Equal(t, reconcile.PhaseRemoteAuthenticated, res.Phase)
	assert.Equal(t, session.StepUpload, res.Step)
	assert.Equal(t, "https://app.example/", res.CleanURL)
	assert.Contains(t, out.String(), reconcile.NoticePaymentConfirmed)
	assert.True(t, app.sess.Get().Paid())
}

func TestClose_RunsClosersInReverse(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	app := &App{closers: []func() error{
		func() error { order = append(order, 1); return boom },
		func() error { order = append(order, 2); return nil },
	}}

	err := app.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, app.Close())
}

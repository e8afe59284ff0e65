// Package pipeline applies user mutations to the Session State.
//
// Every operation changes the in-memory state first, then makes a
// best-effort write to the remote store when a user is signed in, and
// finally saves a snapshot to the local mirror. A failed remote write never
// loses the change: it stays in the mirror and the outcome carries a warning.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
	"github.com/dmitrijs2005/gophfit/internal/netx"
)

const DefaultCallTimeout = 12 * time.Second

// Mirror is the subset of the local mirror the pipeline writes to.
type Mirror interface {
	Save(ctx context.Context, key string, v any)
	Clear(ctx context.Context, key string)
}

type Pipeline struct {
	sess        *session.Store
	mirror      Mirror
	store       remote.Store
	logger      logging.Logger
	now         func() time.Time
	callTimeout time.Duration
	key         string
	httpClient  *http.Client
}

type Option func(*Pipeline)

func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.callTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithHTTPClient sets the client used for progress-photo uploads.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) {
		p.httpClient = c
	}
}

func WithMirrorKey(key string) Option {
	return func(p *Pipeline) {
		p.key = key
	}
}

// New builds a pipeline. store may be nil when no remote backend is configured.
func New(sess *session.Store, m Mirror, store remote.Store, l logging.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		sess:        sess,
		mirror:      m,
		store:       store,
		logger:      l.With("module", "pipeline"),
		now:         time.Now,
		callTimeout: DefaultCallTimeout,
		key:         common.LocalCacheKey,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

// authenticated reports whether remote writes apply to st.
func (p *Pipeline) authenticated(st session.State) bool {
	return p.store != nil && st.Identity != nil && !st.Guest
}

func (p *Pipeline) persist(ctx context.Context, st session.State) {
	p.mirror.Save(ctx, p.key, st.Snapshot())
}

// remoteCall runs fn under the call timeout and logs a failure.
func (p *Pipeline) remoteCall(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		p.logger.Warn(ctx, "remote write failed", "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompleteOnboarding stores the profile, appends its weight as a
// measurement and moves on to the payment gate.
func (p *Pipeline) CompleteOnboarding(ctx context.Context, profile models.Profile) Outcome {
	if profile.Weight <= 0 || profile.Height <= 0 {
		return rejected(fmt.Errorf("%w: weight and height must be positive", common.ErrorValidation))
	}

	entry := models.MeasurementEntry{Date: p.timestamp(), Weight: profile.Weight}
	st := p.sess.Update(func(s *session.State) {
		s.SetProfile(profile)
		s.Measurements = append(s.Measurements, entry)
		s.Step = session.StepPayment
	})

	var err error
	if p.authenticated(st) {
		err = p.remoteCall(ctx, "put profile", func(ctx context.Context) error {
			return p.store.PutProfile(ctx, *st.Profile)
		})
		if err == nil {
			err = p.remoteCall(ctx, "append measurement", func(ctx context.Context) error {
				return p.store.AppendHistory(ctx, models.HistoryMeasurement, entry)
			})
		}
	}

	p.persist(ctx, st)
	return synced(err)
}

// ConfirmPayment sets the payment latch and opens the photo upload.
func (p *Pipeline) ConfirmPayment(ctx context.Context) Outcome {
	var missing bool
	st := p.sess.Update(func(s *session.State) {
		if s.Profile == nil {
			missing = true
			return
		}
		if !s.Profile.HasPaid {
			s.Profile.HasPaid = true
			s.Profile.PaymentDate = p.timestamp()
		}
		s.Step = session.StepUpload
	})
	if missing {
		return rejected(ErrNoProfile)
	}

	var err error
	if p.authenticated(st) {
		err = p.remoteCall(ctx, "put profile", func(ctx context.Context) error {
			return p.store.PutProfile(ctx, *st.Profile)
		})
	}

	p.persist(ctx, st)
	return synced(err)
}

// Photo is an optional body photo archived next to an analysis.
type Photo struct {
	Data        []byte
	ContentType string
}

// RecordAnalysis stores a body analysis computed for ticket t and shows the
// results. When signed in and the store archives photos, the photo is
// uploaded first; that upload is best-effort.
func (p *Pipeline) RecordAnalysis(ctx context.Context, t session.Ticket, a models.Analysis, photo *Photo) Outcome {
	if !p.sess.Current(t) {
		return rejected(session.ErrStale)
	}

	if photo != nil && len(photo.Data) > 0 && p.authenticated(p.sess.Get()) {
		if key, err := p.archivePhoto(ctx, photo); err != nil {
			p.logger.Warn(ctx, "progress photo not archived", "error", err)
		} else {
			a.PhotoKey = key
		}
	}

	st, err := p.sess.UpdateIfCurrent(t, func(s *session.State) {
		s.Analysis = &a
		s.Step = session.StepResults
	})
	if err != nil {
		return rejected(err)
	}

	p.persist(ctx, st)
	return applied()
}

func (p *Pipeline) archivePhoto(ctx context.Context, photo *Photo) (string, error) {
	archive, ok := p.store.(remote.PhotoArchive)
	if !ok {
		return "", remote.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	key, url, err := archive.PresignPhotoUpload(ctx, photo.ContentType)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	if err := netx.UploadToPresignedURL(ctx, p.httpClient, url, photo.ContentType, photo.Data); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	p.logger.Info(ctx, "progress photo archived", "key", key)
	return key, nil
}

// ActivatePlan makes plan the single active plan and opens it.
func (p *Pipeline) ActivatePlan(ctx context.Context, t session.Ticket, plan *models.Plan) Outcome {
	return p.replacePlan(ctx, t, plan, true)
}

// UpdatePlan stores an edited version of the active plan without changing the step.
func (p *Pipeline) UpdatePlan(ctx context.Context, t session.Ticket, plan *models.Plan) Outcome {
	return p.replacePlan(ctx, t, plan, false)
}

func (p *Pipeline) replacePlan(ctx context.Context, t session.Ticket, plan *models.Plan, open bool) Outcome {
	if plan == nil {
		return rejected(ErrNoPlan)
	}
	if !p.sess.Current(t) {
		return rejected(session.ErrStale)
	}
	plan = plan.Clone()

	var (
		syncErr error
		pending bool
	)
	if p.authenticated(p.sess.Get()) {
		if activator, ok := p.store.(remote.PlanActivator); ok {
			if err := p.remoteCall(ctx, "activate plan", func(ctx context.Context) error {
				return activator.ActivatePlan(ctx, plan)
			}); err != nil {
				return rejected(err)
			}
		} else {
			if err := p.remoteCall(ctx, "deactivate plans", p.store.DeactivateAllPlans); err != nil {
				return rejected(err)
			}
			if err := p.remoteCall(ctx, "insert plan", func(ctx context.Context) error {
				return p.store.InsertPlan(ctx, plan, true)
			}); err != nil {
				syncErr, pending = err, true
			}
		}
	}

	st, err := p.sess.UpdateIfCurrent(t, func(s *session.State) {
		s.Plan = plan
		s.PendingPlanSync = pending
		if open {
			s.Step = session.StepPlan
		}
	})
	if err != nil {
		p.logger.Warn(ctx, "plan computed for an abandoned session", "plan_id", plan.ID)
		return rejected(err)
	}

	p.persist(ctx, st)
	return synced(syncErr)
}

// LogMeasurement appends a weight reading.
func (p *Pipeline) LogMeasurement(ctx context.Context, weight float64) Outcome {
	if weight <= 0 {
		return rejected(fmt.Errorf("%w: weight must be positive", common.ErrorValidation))
	}
	entry := models.MeasurementEntry{Date: p.timestamp(), Weight: weight}
	st := p.sess.Update(func(s *session.State) {
		s.Measurements = append(s.Measurements, entry)
	})

	var err error
	if p.authenticated(st) {
		err = p.remoteCall(ctx, "append measurement", func(ctx context.Context) error {
			return p.store.AppendHistory(ctx, models.HistoryMeasurement, entry)
		})
	}

	p.persist(ctx, st)
	return synced(err)
}

// LogWorkout appends a completed plan day.
func (p *Pipeline) LogWorkout(ctx context.Context, dayNumber, durationMinutes int, calories float64) Outcome {
	if dayNumber <= 0 || durationMinutes <= 0 || calories < 0 {
		return rejected(fmt.Errorf("%w: day and duration must be positive", common.ErrorValidation))
	}
	entry := models.WorkoutEntry{
		Date:            p.timestamp(),
		DayNumber:       dayNumber,
		DurationMinutes: durationMinutes,
		CaloriesBurned:  calories,
	}
	st := p.sess.Update(func(s *session.State) {
		s.Workouts = append(s.Workouts, entry)
	})

	var err error
	if p.authenticated(st) {
		err = p.remoteCall(ctx, "append workout", func(ctx context.Context) error {
			return p.store.AppendHistory(ctx, models.HistoryWorkout, entry)
		})
	}

	p.persist(ctx, st)
	return synced(err)
}

// Navigate moves to another step. It only touches the mirror.
func (p *Pipeline) Navigate(ctx context.Context, step session.Step) Outcome {
	if !step.Valid() {
		return rejected(fmt.Errorf("%w: %q", ErrInvalidStep, step))
	}
	st := p.sess.Update(func(s *session.State) {
		s.Step = step
	})
	p.persist(ctx, st)
	return applied()
}

// Start leaves the home screen: signed-in and guest users land where their
// data says, everyone else goes to sign-in.
func (p *Pipeline) Start(ctx context.Context) Outcome {
	st := p.sess.Update(func(s *session.State) {
		if s.Identity == nil && !s.Guest {
			s.Step = session.StepAuth
			return
		}
		s.Step = session.LandingStep(s.Profile, s.Plan)
	})
	p.persist(ctx, st)
	return applied()
}

// EnterGuest switches to local-only mode. Remote writes stop from here on.
func (p *Pipeline) EnterGuest(ctx context.Context) Outcome {
	st := p.sess.Update(func(s *session.State) {
		s.Guest = true
		s.Identity = nil
		s.Step = session.LandingStep(s.Profile, s.Plan)
	})
	p.persist(ctx, st)
	p.logger.Info(ctx, "guest mode entered")
	return applied()
}

// SignedIn attaches a remote identity to the session.
func (p *Pipeline) SignedIn(ctx context.Context, user *remote.User) Outcome {
	if user == nil {
		return rejected(common.ErrorUnauthorized)
	}
	st := p.sess.Update(func(s *session.State) {
		s.Identity = &session.Identity{UserID: user.ID, Email: user.Email}
		s.Guest = false
	})
	p.persist(ctx, st)
	return applied()
}

// Logout signs out remotely, drops the session and wipes the mirror.
func (p *Pipeline) Logout(ctx context.Context) Outcome {
	st := p.sess.Get()

	var err error
	if p.authenticated(st) {
		if auth, ok := p.store.(remote.Authenticator); ok {
			err = p.remoteCall(ctx, "sign out", auth.SignOut)
			if errors.Is(err, remote.ErrUnauthorized) {
				err = nil
			}
		}
	}

	p.sess.Reset()
	p.mirror.Clear(ctx, p.key)
	p.logger.Info(ctx, "logged out", "guest", st.Guest)
	return synced(err)
}

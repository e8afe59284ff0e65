// Package reconcile decides, once per start, where the client's Session
// State comes from: the local mirror for guests, the remote store for
// signed-in users, or nowhere at all.
package reconcile

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophfit/internal/client/normalize"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

type Phase string

const (
	PhaseChecking            Phase = "CHECKING"
	PhaseGuestLocal          Phase = "GUEST_LOCAL"
	PhaseRemoteAuthenticated Phase = "REMOTE_AUTHENTICATED"
	PhaseAnonymous           Phase = "ANONYMOUS"
)

// NoticePaymentConfirmed is shown when a checkout return URL unlocked the account.
const NoticePaymentConfirmed = "Payment confirmed! Access unlocked."

const DefaultFetchTimeout = 12 * time.Second

// Query parameters a payment provider appends to the return URL.
var paymentParams = []string{"status", "collection_status"}

// Mirror is the subset of the local mirror the reconciler needs.
type Mirror interface {
	Save(ctx context.Context, key string, v any)
	Load(ctx context.Context, key string, dst any) bool
	Clear(ctx context.Context, key string)
}

type StartOptions struct {
	// ReturnURL is the URL the client was opened with, possibly carrying a payment marker.
	ReturnURL string
}

type Result struct {
	Phase    Phase
	Step     session.Step
	CleanURL string
	Notices  []string
}

type Reconciler struct {
	sess         *session.Store
	mirror       Mirror
	store        remote.Store
	logger       logging.Logger
	now          func() time.Time
	fetchTimeout time.Duration
	key          string
}

type Option func(*Reconciler)

func WithFetchTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.fetchTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// WithMirrorKey overrides the storage key of the snapshot.
func WithMirrorKey(key string) Option {
	return func(r *Reconciler) {
		r.key = key
	}
}

// New builds a reconciler. store may be nil when no remote backend is configured.
func New(sess *session.Store, m Mirror, store remote.Store, l logging.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		sess:         sess,
		mirror:       m,
		store:        store,
		logger:       l.With("module", "reconcile"),
		now:          time.Now,
		fetchTimeout: DefaultFetchTimeout,
		key:          common.LocalCacheKey,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run rebuilds the Session State and reports the phase it ended in. It never
// fails: every problem degrades to a guest, default or anonymous session.
func (r *Reconciler) Run(ctx context.Context, opts StartOptions) (res Result) {
	res = Result{Phase: PhaseChecking, CleanURL: opts.ReturnURL}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error(ctx, "reconcile panicked", "panic", fmt.Sprint(p))
			r.sess.Reset()
			res = Result{Phase: PhaseAnonymous, Step: session.StepHome, CleanURL: opts.ReturnURL}
		}
	}()

	var local session.Snapshot
	hasLocal := r.mirror.Load(ctx, r.key, &local)

	if hasLocal && local.Guest {
		st := session.Restore(local)
		st.Guest = true
		st.Step = session.LandingStep(st.Profile, st.Plan)
		r.sess.Replace(st)
		r.logger.Info(ctx, "guest session restored", "step", st.Step)
		res.Phase, res.Step = PhaseGuestLocal, st.Step
		return res
	}

	if r.store == nil {
		r.logger.Debug(ctx, "no remote store configured")
		return r.anonymous(res)
	}

	user, err := r.session(ctx)
	if err != nil {
		r.logger.Warn(ctx, "session lookup failed", "error", err)
		return r.anonymous(res)
	}
	if user == nil {
		return r.anonymous(res)
	}

	f := r.fetch(ctx)

	st := session.State{
		Identity:     &session.Identity{UserID: user.ID, Email: user.Email},
		Profile:      f.profile,
		Plan:         f.plan,
		Measurements: f.history.Measurements,
		Workouts:     f.history.Workouts,
	}

	var owned bool
	if hasLocal && local.OwnerID == user.ID {
		owned = true
		st.Analysis = local.Analysis
	}

	if owned && local.Profile != nil && st.Profile != nil && local.Profile.HasPaid && !st.Profile.HasPaid {
		// The latch only moves forward: a paid mirror beats a stale remote copy.
		merged := models.MergeLatch(*local.Profile, *st.Profile)
		st.Profile = &merged
		if err := r.putProfile(ctx, merged); err != nil {
			r.logger.Warn(ctx, "failed to re-push payment latch", "error", err)
		}
	}

	if owned && local.PendingPlanSync && local.Plan != nil && st.Plan == nil {
		r.repairPlan(ctx, &st, local.Plan)
	}

	if r.paymentReturned(opts.ReturnURL) && st.Profile != nil && !st.Profile.HasPaid {
		st.Profile.HasPaid = true
		st.Profile.PaymentDate = r.now().UTC().Format(time.RFC3339)
		if err := r.putProfile(ctx, *st.Profile); err != nil {
			r.logger.Warn(ctx, "failed to store payment confirmation", "error", err)
		}
		res.Notices = append(res.Notices, NoticePaymentConfirmed)
		res.CleanURL = stripPaymentParams(opts.ReturnURL)
	}

	models.SortMeasurements(st.Measurements)
	models.SortWorkouts(st.Workouts)
	st.Step = session.LandingStep(st.Profile, st.Plan)
	r.sess.Replace(st)
	r.mirror.Save(ctx, r.key, st.Snapshot())

	r.logger.Info(ctx, "remote session reconciled",
		"user", user.ID, "step", st.Step, "has_profile", st.Profile != nil, "has_plan", st.Plan != nil)

	res.Phase, res.Step = PhaseRemoteAuthenticated, st.Step
	return res
}

// Listen resets the session when the remote store reports a sign-out, unless
// the user is in guest mode. It returns the unsubscribe function.
func (r *Reconciler) Listen() func() {
	if r.store == nil {
		return func() {}
	}
	return r.store.OnAuthStateChange(func(event remote.AuthEvent, _ *remote.User) {
		ctx := context.Background()
		if event != remote.SignedOut {
			r.logger.Debug(ctx, "auth event", "event", event.String())
			return
		}
		if r.sess.Get().Guest {
			return
		}
		r.sess.Reset()
		r.mirror.Save(ctx, r.key, r.sess.Get().Snapshot())
		r.logger.Info(ctx, "signed out, session reset")
	})
}

func (r *Reconciler) anonymous(res Result) Result {
	r.sess.Reset()
	res.Phase, res.Step = PhaseAnonymous, session.StepHome
	return res
}

func (r *Reconciler) session(ctx context.Context) (*remote.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	return r.store.GetSession(ctx)
}

func (r *Reconciler) putProfile(ctx context.Context, p models.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	return r.store.PutProfile(ctx, p)
}

type fetched struct {
	profile *models.Profile
	plan    *models.Plan
	history models.History
}

// fetch loads profile, active plan and history concurrently. A failed fetch
// leaves its part absent; it never fails the group.
func (r *Reconciler) fetch(ctx context.Context) fetched {
	var f fetched
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, r.fetchTimeout)
		defer cancel()
		raw, err := r.store.GetProfile(cctx)
		if err != nil {
			r.logger.Warn(ctx, "profile fetch failed", "error", err)
			return nil
		}
		if p, ok := normalize.Profile(raw); ok {
			f.profile = &p
		}
		return nil
	})

	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, r.fetchTimeout)
		defer cancel()
		plan, err := r.store.GetActivePlan(cctx)
		if err != nil {
			r.logger.Warn(ctx, "active plan fetch failed", "error", err)
			return nil
		}
		f.plan = plan
		return nil
	})

	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, r.fetchTimeout)
		defer cancel()
		h, err := r.store.GetHistory(cctx)
		if err != nil {
			r.logger.Warn(ctx, "history fetch failed", "error", err)
			return nil
		}
		f.history = h
		return nil
	})

	_ = g.Wait()
	return f
}

// repairPlan re-pushes a plan whose activation was only half written remotely.
func (r *Reconciler) repairPlan(ctx context.Context, st *session.State, plan *models.Plan) {
	st.Plan = plan.Clone()

	cctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	if err := r.store.InsertPlan(cctx, plan, true); err != nil {
		r.logger.Warn(ctx, "pending plan sync failed", "plan_id", plan.ID, "error", err)
		st.PendingPlanSync = true
		return
	}
	st.PendingPlanSync = false
	r.logger.Info(ctx, "pending plan synced", "plan_id", plan.ID)
}

func (r *Reconciler) paymentReturned(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	q := u.Query()
	for _, name := range paymentParams {
		if v := q.Get(name); v == "approved" || v == "success" {
			return true
		}
	}
	return false
}

func stripPaymentParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, name := range paymentParams {
		q.Del(name)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

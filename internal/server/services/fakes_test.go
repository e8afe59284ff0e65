package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/dbx"
	"github.com/dmitrijs2005/gophfit/internal/models"
	smodels "github.com/dmitrijs2005/gophfit/internal/server/models"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/history"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/plans"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byEmail   map[string]*smodels.User
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *smodels.User) (*smodels.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "u-" + u.Email
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*smodels.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*smodels.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRefreshRepo struct {
	tokens    map[string]*smodels.RefreshToken
	createErr error
	deleted   []string
	purged    int64
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &smodels.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, token string) (*smodels.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	delete(f.tokens, token)
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.Expires.Before(now) {
			delete(f.tokens, k)
			n++
		}
	}
	f.purged += n
	return n, nil
}

type fakeProfilesRepo struct {
	data map[string]json.RawMessage
	paid map[string]string
}

func (f *fakeProfilesRepo) Get(_ context.Context, userID string) (json.RawMessage, error) {
	return f.data[userID], nil
}

func (f *fakeProfilesRepo) Upsert(_ context.Context, userID string, data json.RawMessage) error {
	f.data[userID] = data
	return nil
}

func (f *fakeProfilesRepo) SetPaid(_ context.Context, userID, date string) error {
	f.paid[userID] = date
	return nil
}

type fakePlansRepo struct {
	active      map[string]*models.Plan
	inserted    []*models.Plan
	deactivated int
	insertErr   error
}

func (f *fakePlansRepo) GetActive(_ context.Context, userID string) (*models.Plan, error) {
	return f.active[userID], nil
}

func (f *fakePlansRepo) DeactivateAll(_ context.Context, userID string) error {
	f.deactivated++
	delete(f.active, userID)
	return nil
}

func (f *fakePlansRepo) Insert(_ context.Context, userID string, p *models.Plan, active bool) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, p)
	if active {
		f.active[userID] = p
	}
	return nil
}

type fakeHistoryRepo struct {
	entries []json.RawMessage
}

func (f *fakeHistoryRepo) Append(_ context.Context, _ string, _ models.HistoryKind, e json.RawMessage) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeHistoryRepo) List(context.Context, string) (models.History, error) {
	return models.History{Measurements: []models.MeasurementEntry{{Date: "2026-01-01T00:00:00Z", Weight: 70}}}, nil
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	refresh  *fakeRefreshRepo
	profiles *fakeProfilesRepo
	plans    *fakePlansRepo
	history  *fakeHistoryRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    &fakeUsersRepo{byEmail: map[string]*smodels.User{}},
		refresh:  &fakeRefreshRepo{tokens: map[string]*smodels.RefreshToken{}},
		profiles: &fakeProfilesRepo{data: map[string]json.RawMessage{}, paid: map[string]string{}},
		plans:    &fakePlansRepo{active: map[string]*models.Plan{}},
		history:  &fakeHistoryRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository           { return m.profiles }
func (m *fakeRepoManager) Plans(dbx.DBTX) plans.Repository                 { return m.plans }
func (m *fakeRepoManager) History(dbx.DBTX) history.Repository             { return m.history }

package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/dbx"
	"github.com/dmitrijs2005/gophfit/internal/models"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/repomanager"
)

// FitnessService owns a user's profile, plans and history.
type FitnessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFitnessService(db *sql.DB, m repomanager.RepositoryManager) *FitnessService {
	return &FitnessService{db: db, repomanager: m}
}

func requireObject(raw []byte, what string) error {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return fmt.Errorf("%w: %s must be a JSON object", common.ErrorValidation, what)
	}
	return nil
}

// GetProfile returns the stored profile verbatim, or nil.
func (s *FitnessService) GetProfile(ctx context.Context, userID string) (json.RawMessage, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// PutProfile stores the profile. The payment latch is enforced by storage,
// so a stale client cannot clear hasPaid.
func (s *FitnessService) PutProfile(ctx context.Context, userID string, raw json.RawMessage) error {
	if err := requireObject(raw, "profile"); err != nil {
		return err
	}
	if paid := gjson.GetBytes(raw, "hasPaid"); paid.Exists() && paid.Type != gjson.True && paid.Type != gjson.False {
		return fmt.Errorf("%w: hasPaid must be a boolean", common.ErrorValidation)
	}
	return s.repomanager.Profiles(s.db).Upsert(ctx, userID, raw)
}

// MarkPaid latches the paid flag of userID.
func (s *FitnessService) MarkPaid(ctx context.Context, userID, paymentDate string) error {
	return s.repomanager.Profiles(s.db).SetPaid(ctx, userID, paymentDate)
}

func (s *FitnessService) GetActivePlan(ctx context.Context, userID string) (*models.Plan, error) {
	return s.repomanager.Plans(s.db).GetActive(ctx, userID)
}

func (s *FitnessService) DeactivateAllPlans(ctx context.Context, userID string) error {
	return s.repomanager.Plans(s.db).DeactivateAll(ctx, userID)
}

// InsertPlan stores plan. An active insert first deactivates the current
// plan in the same transaction.
func (s *FitnessService) InsertPlan(ctx context.Context, userID string, plan *models.Plan, active bool) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is required", common.ErrorValidation)
	}
	if !active {
		return s.repomanager.Plans(s.db).Insert(ctx, userID, plan, false)
	}
	return s.ActivatePlan(ctx, userID, plan)
}

// ActivatePlan makes plan the only active plan of userID.
func (s *FitnessService) ActivatePlan(ctx context.Context, userID string, plan *models.Plan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is required", common.ErrorValidation)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Plans(tx)
		if err := repo.DeactivateAll(ctx, userID); err != nil {
			return err
		}
		return repo.Insert(ctx, userID, plan, true)
	})
}

func (s *FitnessService) AppendHistory(ctx context.Context, userID string, kind models.HistoryKind, entry json.RawMessage) error {
	switch kind {
	case models.HistoryMeasurement, models.HistoryWorkout:
	default:
		return fmt.Errorf("%w: unknown history kind %q", common.ErrorValidation, kind)
	}
	if err := requireObject(entry, "entry"); err != nil {
		return err
	}
	if !gjson.GetBytes(entry, "date").Exists() {
		return fmt.Errorf("%w: entry date is required", common.ErrorValidation)
	}
	return s.repomanager.History(s.db).Append(ctx, userID, kind, entry)
}

func (s *FitnessService) GetHistory(ctx context.Context, userID string) (models.History, error) {
	return s.repomanager.History(s.db).List(ctx, userID)
}

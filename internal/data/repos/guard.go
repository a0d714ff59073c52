package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datium-labs/dspm-analyzer/internal/domain"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

// GuardViolation is a guard row that failed the separation rule, joined to
// the locator of the object it belongs to.
type GuardViolation struct {
	Locator          string    `json:"locator"`
	MappingLocator   string    `json:"mapping_locator"`
	Separated        bool      `json:"separated"`
	SeparationReason string    `json:"separation_reason"`
	CheckedAt        time.Time `json:"checked_at"`
}

// GuardStatus aggregates the guard table for the status report.
type GuardStatus struct {
	PseudonymizedTotal int64 `json:"pseudonymized_total"`
	SeparatedOK        int64 `json:"separated_ok"`
	SeparatedMissing   int64 `json:"separated_missing"`
}

type GuardRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.PseudonymizationGuard) error
	GetByObjectID(ctx context.Context, tx *gorm.DB, objectID string) (*domain.PseudonymizationGuard, error)
	ListViolations(ctx context.Context, tx *gorm.DB, limit int) ([]*GuardViolation, error)
	Status(ctx context.Context, tx *gorm.DB) (GuardStatus, error)
}

type guardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuardRepo(db *gorm.DB, baseLog *logger.Logger) GuardRepo {
	return &guardRepo{db: db, log: baseLog.With("repo", "GuardRepo")}
}

func (r *guardRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.PseudonymizationGuard) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ObjectID == "" {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "object_id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *guardRepo) GetByObjectID(ctx context.Context, tx *gorm.DB, objectID string) (*domain.PseudonymizationGuard, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if objectID == "" {
		return nil, nil
	}
	var row domain.PseudonymizationGuard
	if err := t.WithContext(ctx).Where("object_id = ?", objectID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *guardRepo) ListViolations(ctx context.Context, tx *gorm.DB, limit int) ([]*GuardViolation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Table("pseudonymization_guard").
		Select("data_object.locator, pseudonymization_guard.mapping_locator, pseudonymization_guard.separated, pseudonymization_guard.separation_reason, pseudonymization_guard.checked_at").
		Joins("JOIN data_object ON data_object.id = pseudonymization_guard.object_id").
		Where("pseudonymization_guard.separated = ?", false).
		Order("pseudonymization_guard.checked_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*GuardViolation
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *guardRepo) Status(ctx context.Context, tx *gorm.DB) (GuardStatus, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var st GuardStatus
	if err := t.WithContext(ctx).
		Model(&domain.PseudonymizationGuard{}).
		Count(&st.PseudonymizedTotal).Error; err != nil {
		return GuardStatus{}, err
	}
	if err := t.WithContext(ctx).
		Model(&domain.PseudonymizationGuard{}).
		Where("separated = ?", true).
		Count(&st.SeparatedOK).Error; err != nil {
		return GuardStatus{}, err
	}
	st.SeparatedMissing = st.PseudonymizedTotal - st.SeparatedOK
	return st, nil
}

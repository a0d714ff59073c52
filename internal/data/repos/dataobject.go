package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datium-labs/dspm-analyzer/internal/domain"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

type DataObjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.DataObject) error
	Update(ctx context.Context, tx *gorm.DB, row *domain.DataObject) error
	// UpsertByLocator is the conditional insert-or-update keyed on the unique
	// locator index; the row's first_seen and id are never overwritten on
	// conflict.
	UpsertByLocator(ctx context.Context, tx *gorm.DB, row *domain.DataObject) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*domain.DataObject, error)
	GetByLocator(ctx context.Context, tx *gorm.DB, locator string) (*domain.DataObject, error)
	ListBySource(ctx context.Context, tx *gorm.DB, sourceID string, limit int) ([]*domain.DataObject, error)
}

type dataObjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataObjectRepo(db *gorm.DB, baseLog *logger.Logger) DataObjectRepo {
	return &dataObjectRepo{db: db, log: baseLog.With("repo", "DataObjectRepo")}
}

// Columns refreshed on every sighting of an existing locator.
var dataObjectScanColumns = []string{
	"source_id", "object_type", "bytes", "extra",
	"last_scanned", "last_modified", "etag", "checksum", "version",
}

func (r *dataObjectRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.DataObject) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *dataObjectRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.DataObject) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == "" {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *dataObjectRepo) UpsertByLocator(ctx context.Context, tx *gorm.DB, row *domain.DataObject) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "locator"}},
			DoUpdates: clause.AssignmentColumns(dataObjectScanColumns),
		}).
		Create(row).Error
}

func (r *dataObjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*domain.DataObject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == "" {
		return nil, nil
	}
	var row domain.DataObject
	if err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *dataObjectRepo) GetByLocator(ctx context.Context, tx *gorm.DB, locator string) (*domain.DataObject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if locator == "" {
		return nil, nil
	}
	var row domain.DataObject
	if err := t.WithContext(ctx).Where("locator = ?", locator).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *dataObjectRepo) ListBySource(ctx context.Context, tx *gorm.DB, sourceID string, limit int) ([]*domain.DataObject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Order("last_scanned DESC")
	if sourceID != "" {
		q = q.Where("source_id = ?", sourceID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*domain.DataObject
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

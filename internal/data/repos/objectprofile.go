package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datium-labs/dspm-analyzer/internal/domain"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

type ObjectProfileRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.ObjectProfile) error
	GetByObjectID(ctx context.Context, tx *gorm.DB, objectID string) (*domain.ObjectProfile, error)
	GetByLocator(ctx context.Context, tx *gorm.DB, locator string) (*domain.ObjectProfile, error)
}

type objectProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObjectProfileRepo(db *gorm.DB, baseLog *logger.Logger) ObjectProfileRepo {
	return &objectProfileRepo{db: db, log: baseLog.With("repo", "ObjectProfileRepo")}
}

func (r *objectProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.ObjectProfile) error {
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

func (r *objectProfileRepo) GetByObjectID(ctx context.Context, tx *gorm.DB, objectID string) (*domain.ObjectProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if objectID == "" {
		return nil, nil
	}
	var row domain.ObjectProfile
	if err := t.WithContext(ctx).Where("object_id = ?", objectID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *objectProfileRepo) GetByLocator(ctx context.Context, tx *gorm.DB, locator string) (*domain.ObjectProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if locator == "" {
		return nil, nil
	}
	var row domain.ObjectProfile
	err := t.WithContext(ctx).
		Where("object_id IN (?)",
			t.Session(&gorm.Session{NewDB: true}).
				Model(&domain.DataObject{}).
				Select("id").
				Where("locator = ?", locator),
		).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

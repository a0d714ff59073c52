package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/datium-labs/dspm-analyzer/internal/analysis"
	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/domain"
	"github.com/datium-labs/dspm-analyzer/internal/events"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

// BulkItem is one asset record as reported by a collector.
type BulkItem struct {
	Kind    string         `json:"kind" binding:"required"`
	Locator string         `json:"locator" binding:"required"`
	Name    string         `json:"name" binding:"required"`
	Region  string         `json:"region" binding:"required"`
	Bytes   *int64         `json:"bytes,omitempty"`
	Meta    map[string]any `json:"meta"`
}

// CollectInput is the single-item store payload. Unlike bulk ingest it
// carries the extra bag verbatim and skips profiling and guard evaluation.
type CollectInput struct {
	SourceID      string         `json:"source_id" binding:"required"`
	ObjectType    string         `json:"object_type" binding:"required"`
	Locator       string         `json:"locator" binding:"required"`
	ParentLocator *string        `json:"parent_locator,omitempty"`
	Bytes         *int64         `json:"bytes,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// BulkResult aggregates what one batch did to the catalog.
type BulkResult struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Profiled int `json:"profiled"`
	Guarded  int `json:"guarded"`
}

type CollectResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AnalyzerService interface {
	// IngestBulk reconciles a whole batch against the catalog in one
	// transaction: either every item's effects commit or none do. A nil tx
	// runs in a fresh transaction on the service's own db handle.
	IngestBulk(ctx context.Context, tx *gorm.DB, sourceID string, items []BulkItem) (BulkResult, error)
	Collect(ctx context.Context, tx *gorm.DB, in CollectInput) (CollectResult, error)
}

type analyzerService struct {
	db       *gorm.DB
	log      *logger.Logger
	objects  repos.DataObjectRepo
	profiles repos.ObjectProfileRepo
	guards   repos.GuardRepo
	bus      events.IngestBus // optional
}

func NewAnalyzerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	objects repos.DataObjectRepo,
	profiles repos.ObjectProfileRepo,
	guards repos.GuardRepo,
	bus events.IngestBus,
) AnalyzerService {
	return &analyzerService{
		db:       db,
		log:      baseLog.With("service", "AnalyzerService"),
		objects:  objects,
		profiles: profiles,
		guards:   guards,
		bus:      bus,
	}
}

func (s *analyzerService) IngestBulk(ctx context.Context, tx *gorm.DB, sourceID string, items []BulkItem) (BulkResult, error) {
	var res BulkResult
	now := time.Now().UTC()

	// Items are applied strictly in payload order so two items sharing a
	// locator become update-then-update, never create-then-create.
	run := func(t *gorm.DB) error {
		for i := range items {
			if err := s.mergeItem(ctx, t, now, sourceID, items[i], &res); err != nil {
				return fmt.Errorf("item %d (%s): %w", i, items[i].Locator, err)
			}
		}
		return nil
	}

	var err error
	if tx != nil {
		err = run(tx)
	} else {
		err = s.db.WithContext(ctx).Transaction(run)
	}
	if err != nil {
		return BulkResult{}, err
	}

	if s.bus != nil {
		ev := events.IngestEvent{
			SourceID: sourceID,
			Created:  res.Created,
			Updated:  res.Updated,
			Profiled: res.Profiled,
			Guarded:  res.Guarded,
			At:       now,
		}
		if pubErr := s.bus.Publish(ctx, ev); pubErr != nil {
			s.log.Warn("ingest event publish failed", "error", pubErr, "source_id", sourceID)
		}
	}

	s.log.Info("batch ingested",
		"source_id", sourceID,
		"items", len(items),
		"created", res.Created,
		"updated", res.Updated,
		"profiled", res.Profiled,
		"guarded", res.Guarded,
	)
	return res, nil
}

// mergeItem reconciles one incoming record: metadata merge, locator
// resolution, profiling, and guard evaluation. Malformed optional fields
// degrade to absent; only storage errors abort.
func (s *analyzerService) mergeItem(ctx context.Context, tx *gorm.DB, now time.Time, sourceID string, item BulkItem, res *BulkResult) error {
	merged := analysis.MergeMeta(item.Meta, item.Name, item.Region)
	extra := analysis.ParseExtra(merged)

	obj, err := s.objects.GetByLocator(ctx, tx, item.Locator)
	if err != nil {
		return fmt.Errorf("lookup by locator: %w", err)
	}

	if obj != nil {
		obj.SourceID = sourceID
		obj.ObjectType = item.Kind
		obj.Bytes = item.Bytes
		obj.Extra = datatypes.JSONMap(merged)
		obj.LastScanned = now
		obj.LastModified = extra.LastModified
		obj.Etag = extra.Etag
		obj.Checksum = extra.Checksum
		obj.Version = extra.Version
		if err := s.objects.Update(ctx, tx, obj); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		res.Updated++
	} else {
		obj = &domain.DataObject{
			ID:           uuid.New().String(),
			SourceID:     sourceID,
			ObjectType:   item.Kind,
			Locator:      item.Locator,
			Bytes:        item.Bytes,
			Extra:        datatypes.JSONMap(merged),
			FirstSeen:    now,
			LastScanned:  now,
			LastModified: extra.LastModified,
			Etag:         extra.Etag,
			Checksum:     extra.Checksum,
			Version:      extra.Version,
		}
		if err := s.objects.Create(ctx, tx, obj); err != nil {
			return fmt.Errorf("create: %w", err)
		}
		res.Created++
	}

	if extra.Sample != "" {
		prof := analysis.ProfileText(extra.Sample)
		row := &domain.ObjectProfile{
			ObjectID:     obj.ID,
			Bytes:        bytesOrZero(item.Bytes),
			LineCount:    prof.LineCount,
			AvgLineLen:   prof.AvgLineLen,
			MaxLineLen:   prof.MaxLineLen,
			RatioDigit:   prof.RatioDigit,
			RatioAlpha:   prof.RatioAlpha,
			RatioSymbol:  prof.RatioSymbol,
			HasCsvHeader: prof.HasCsvHeader,
			ProfiledAt:   now,
		}
		if err := s.profiles.Upsert(ctx, tx, row); err != nil {
			return fmt.Errorf("profile upsert: %w", err)
		}
		res.Profiled++
	}

	verdict := analysis.EvaluateGuard(extra)
	if verdict.Applicable {
		row := &domain.PseudonymizationGuard{
			ObjectID:         obj.ID,
			IsPseudonymized:  true,
			MappingLocator:   verdict.MappingLocator,
			Separated:        verdict.Separated,
			SeparationReason: verdict.Reason,
			CheckedAt:        now,
		}
		if err := s.guards.Upsert(ctx, tx, row); err != nil {
			return fmt.Errorf("guard upsert: %w", err)
		}
		res.Guarded++
	}

	return nil
}

func (s *analyzerService) Collect(ctx context.Context, tx *gorm.DB, in CollectInput) (CollectResult, error) {
	t := tx
	if t == nil {
		t = s.db
	}
	now := time.Now().UTC()
	row := &domain.DataObject{
		ID:            uuid.New().String(),
		SourceID:      in.SourceID,
		ObjectType:    in.ObjectType,
		Locator:       in.Locator,
		ParentLocator: in.ParentLocator,
		Bytes:         in.Bytes,
		Extra:         datatypes.JSONMap(in.Extra),
		FirstSeen:     now,
		LastScanned:   now,
	}
	if err := s.objects.UpsertByLocator(ctx, t, row); err != nil {
		return CollectResult{}, fmt.Errorf("store meta: %w", err)
	}
	// On a locator conflict the catalog keeps its original identity; read it
	// back so the caller always learns the canonical id.
	stored, err := s.objects.GetByLocator(ctx, t, in.Locator)
	if err != nil {
		return CollectResult{}, fmt.Errorf("reload stored row: %w", err)
	}
	if stored == nil {
		return CollectResult{}, fmt.Errorf("stored row missing for locator %q", in.Locator)
	}
	return CollectResult{ID: stored.ID, Status: "stored"}, nil
}

func bytesOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

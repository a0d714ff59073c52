package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/datium-labs/dspm-analyzer/internal/data/repos/testutil"
	"github.com/datium-labs/dspm-analyzer/internal/domain"
)

func TestObjectProfileRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	ctx := context.Background()
	objects := NewDataObjectRepo(gdb, testutil.Logger(t))
	profiles := NewObjectProfileRepo(gdb, testutil.Logger(t))

	now := time.Now().UTC()
	obj := &domain.DataObject{
		ID:          uuid.New().String(),
		SourceID:    "collector-1",
		ObjectType:  "object",
		Locator:     "s3://bucket/key.csv",
		FirstSeen:   now,
		LastScanned: now,
	}
	if err := objects.Create(ctx, tx, obj); err != nil {
		t.Fatalf("Create object: %v", err)
	}

	first := &domain.ObjectProfile{
		ObjectID:     obj.ID,
		Bytes:        12,
		LineCount:    2,
		AvgLineLen:   5.0,
		MaxLineLen:   5,
		RatioDigit:   0.25,
		RatioAlpha:   0.25,
		RatioSymbol:  0.5,
		HasCsvHeader: true,
		ProfiledAt:   now,
	}
	if err := profiles.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := profiles.GetByObjectID(ctx, tx, obj.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByObjectID: got=%v err=%v", got, err)
	}
	if got.LineCount != 2 || !got.HasCsvHeader {
		t.Fatalf("profile did not roundtrip: %+v", got)
	}

	second := &domain.ObjectProfile{
		ObjectID:   obj.ID,
		Bytes:      40,
		LineCount:  7,
		AvgLineLen: 4.5,
		MaxLineLen: 9,
		ProfiledAt: now.Add(time.Minute),
	}
	if err := profiles.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("Upsert(overwrite): %v", err)
	}
	got, err = profiles.GetByObjectID(ctx, tx, obj.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByObjectID after overwrite: got=%v err=%v", got, err)
	}
	if got.LineCount != 7 || got.HasCsvHeader {
		t.Fatalf("overwrite did not replace the row: %+v", got)
	}

	byLoc, err := profiles.GetByLocator(ctx, tx, "s3://bucket/key.csv")
	if err != nil || byLoc == nil {
		t.Fatalf("GetByLocator: got=%v err=%v", byLoc, err)
	}
	if byLoc.ObjectID != obj.ID {
		t.Fatalf("GetByLocator object_id = %s, want %s", byLoc.ObjectID, obj.ID)
	}
	if byLoc, err := profiles.GetByLocator(ctx, tx, "s3://bucket/other"); err != nil || byLoc != nil {
		t.Fatalf("GetByLocator(missing): got=%v err=%v", byLoc, err)
	}
}

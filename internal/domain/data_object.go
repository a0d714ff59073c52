package domain

import (
	"time"

	"gorm.io/datatypes"
)

// DataObject is the canonical catalog row for one locator. A locator is the
// collector-facing stable identifier (s3://bucket/key, rds://id, ...); the id
// is generated once at first sighting and survives re-ingestion.
type DataObject struct {
	ID            string            `gorm:"primaryKey;size:64" json:"id"`
	SourceID      string            `gorm:"column:source_id;not null;index" json:"source_id"`
	ObjectType    string            `gorm:"column:object_type;not null" json:"object_type"`
	Locator       string            `gorm:"column:locator;not null;uniqueIndex:uq_locator" json:"locator"`
	ParentLocator *string           `gorm:"column:parent_locator" json:"parent_locator,omitempty"`
	Bytes         *int64            `gorm:"column:bytes" json:"bytes,omitempty"`
	Extra         datatypes.JSONMap `gorm:"column:extra;type:jsonb" json:"extra,omitempty"`
	FirstSeen     time.Time         `gorm:"column:first_seen" json:"first_seen"`
	LastScanned   time.Time         `gorm:"column:last_scanned" json:"last_scanned"`
	LastModified  *time.Time        `gorm:"column:last_modified" json:"last_modified,omitempty"`
	Etag          *string           `gorm:"column:etag" json:"etag,omitempty"`
	Checksum      *string           `gorm:"column:checksum" json:"checksum,omitempty"`
	Version       *string           `gorm:"column:version" json:"version,omitempty"`
}

func (DataObject) TableName() string { return "data_object" }

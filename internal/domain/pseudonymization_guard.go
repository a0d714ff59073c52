package domain

import "time"

// PseudonymizationGuard records the separation verdict for an object whose
// metadata declared a re-identification mapping. Objects that never declare
// a mapping get no row at all.
type PseudonymizationGuard struct {
	ObjectID         string    `gorm:"column:object_id;primaryKey;size:64" json:"object_id"`
	IsPseudonymized  bool      `gorm:"column:is_pseudonymized;not null" json:"is_pseudonymized"`
	MappingLocator   string    `gorm:"column:mapping_locator" json:"mapping_locator"`
	Separated        bool      `gorm:"column:separated" json:"separated"`
	SeparationReason string    `gorm:"column:separation_reason" json:"separation_reason"`
	CheckedAt        time.Time `gorm:"column:checked_at" json:"checked_at"`
}

func (PseudonymizationGuard) TableName() string { return "pseudonymization_guard" }

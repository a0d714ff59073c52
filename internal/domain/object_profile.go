package domain

import "time"

// ObjectProfile holds structural text statistics for one DataObject, keyed
// 1:1 by the object's id. Overwritten whenever a new sample is ingested.
type ObjectProfile struct {
	ObjectID     string    `gorm:"column:object_id;primaryKey;size:64" json:"object_id"`
	Bytes        int64     `gorm:"column:bytes" json:"bytes"`
	LineCount    int64     `gorm:"column:line_count" json:"line_count"`
	AvgLineLen   float64   `gorm:"column:avg_line_len" json:"avg_line_len"`
	MaxLineLen   int64     `gorm:"column:max_line_len" json:"max_line_len"`
	RatioDigit   float64   `gorm:"column:ratio_digit" json:"ratio_digit"`
	RatioAlpha   float64   `gorm:"column:ratio_alpha" json:"ratio_alpha"`
	RatioSymbol  float64   `gorm:"column:ratio_symbol" json:"ratio_symbol"`
	HasCsvHeader bool      `gorm:"column:has_csv_header" json:"has_csv_header"`
	ProfiledAt   time.Time `gorm:"column:profiled_at" json:"profiled_at"`
}

func (ObjectProfile) TableName() string { return "object_profile" }

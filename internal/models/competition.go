package models

import "time"

// Competition holds the per-competition configuration blobs. MasterData,
// GainMatrix and Thresholds are written once at creation and never updated;
// DatasetVersion is the digest of MasterData and is stamped onto every
// submission scored against it.
type Competition struct {
	ID              uint      `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt       time.Time `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt       time.Time `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	Name            string    `gorm:"unique" json:"name" example:"Dos Esfinges 2025"`
	Description     string    `gorm:"type:text" json:"description"`
	Deadline        time.Time `json:"deadline" example:"2025-12-31T23:59:59Z"`
	ResultsRevealAt time.Time `json:"results_reveal_at" example:"2026-01-01T23:59:59Z"`
	DatasetVersion  string    `gorm:"size:64;index" json:"dataset_version"`
	MasterData      []byte    `gorm:"type:bytea" json:"-"`
	GainMatrix      string    `gorm:"type:text" json:"-"`
	Thresholds      string    `gorm:"type:text" json:"-"`
}

func (c *Competition) TableName() string {
	return "competitions"
}

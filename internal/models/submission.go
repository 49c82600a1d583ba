package models

import (
	"time"
)

// Submission is the immutable audit record of one scored upload. Rows are
// only ever appended; nothing updates a submission after it is saved.
type Submission struct {
	ID                 uint        `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt          time.Time   `gorm:"index" json:"created_at" example:"2023-01-01T00:00:00Z"`
	UserID             uint        `gorm:"index" json:"user_id" example:"1"`
	User               User        `gorm:"foreignKey:UserID" json:"-"`
	CompetitionID      uint        `gorm:"index" json:"competition_id" example:"1"`
	Competition        Competition `gorm:"foreignKey:CompetitionID" json:"-"`
	ModelName          string      `json:"model_name" example:"lgbm_v3"`
	SubmittedAt        time.Time   `gorm:"index" json:"submitted_at" example:"2023-01-01T00:00:00Z"`
	ExpectedGain       float64     `json:"expected_gain" example:"120.5"`
	ActualGain         float64     `json:"actual_gain" example:"117.3"`
	TP                 int         `json:"tp" example:"100"`
	TN                 int         `json:"tn" example:"800"`
	FP                 int         `json:"fp" example:"50"`
	FN                 int         `json:"fn" example:"50"`
	PositivesPredicted int         `json:"positives_predicted" example:"150"`
	Fingerprint        string      `gorm:"size:64;index" json:"fingerprint"`
	FilePath           string      `json:"-"`
	Category           string      `json:"category" example:"good"`
	DatasetVersion     string      `gorm:"size:64" json:"dataset_version"`
	AfterDeadline      bool        `json:"after_deadline" example:"false"`
	Duplicate          bool        `gorm:"index" json:"duplicate" example:"false"`
	DuplicateOfID      *uint       `json:"duplicate_of_id,omitempty"`
}

func (s *Submission) GetShardKey() int {
	return int(s.UserID)
}

func (s *Submission) TableName() string {
	return "submissions"
}

// SubmissionUpload is the multipart form accompanying the CSV file.
type SubmissionUpload struct {
	ModelName    string  `form:"model_name" binding:"required"`
	ExpectedGain float64 `form:"expected_gain"`
}

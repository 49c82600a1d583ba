package models

import "time"

// LeaderboardEntry is a derived, per-user view over the submission history.
// It is recomputed on demand and never stored.
type LeaderboardEntry struct {
	Rank             int       `json:"rank" example:"1"`
	UserID           uint      `json:"user_id" example:"1"`
	UserName         string    `json:"user_name" example:"Ada"`
	SubmissionCount  int       `json:"submission_count" example:"7"`
	BestGain         float64   `json:"best_gain" example:"470.0"`
	BestSubmissionID uint      `json:"best_submission_id" example:"42"`
	BestSubmittedAt  time.Time `json:"best_submitted_at" example:"2023-01-01T00:00:00Z"`
	LatestGain       float64   `json:"latest_gain" example:"455.5"`
	AverageGain      float64   `json:"average_gain" example:"410.2"`
}

// DuplicateGroup reports identical submission content shared across more
// than one user within a competition.
type DuplicateGroup struct {
	Fingerprint   string   `json:"fingerprint"`
	Count         int      `json:"count" example:"3"`
	UserIDs       []uint   `json:"user_ids"`
	UserNames     []string `json:"user_names"`
	SubmissionIDs []uint   `json:"submission_ids"`
	ModelNames    []string `json:"model_names"`
}

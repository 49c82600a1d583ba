package repository

import (
	"errors"

	"gainboard/internal/models"

	"gorm.io/gorm"
)

type SubmissionRepository interface {
	SaveSubmission(submission *models.Submission) error
	GetSubmissionsByUserAndCompetition(userID, competitionID uint) ([]models.Submission, error)
	GetSubmissionsByCompetition(competitionID uint) ([]models.Submission, error)
	GetSubmissionsByCompetitionPaged(competitionID uint, limit, offset int) ([]models.Submission, int64, error)
	FindEarliestByFingerprint(userID, competitionID uint, fingerprint string) (*models.Submission, error)
	CountByUserAndCompetition(userID, competitionID uint) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db}
}

func (r *submissionRepository) SaveSubmission(submission *models.Submission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) GetSubmissionsByUserAndCompetition(userID, competitionID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Where("user_id = ? AND competition_id = ?", userID, competitionID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) GetSubmissionsByCompetition(competitionID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Preload("User").
		Where("competition_id = ?", competitionID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

// GetSubmissionsByCompetitionPaged returns one page of a competition's
// history plus the total row count, newest first.
func (r *submissionRepository) GetSubmissionsByCompetitionPaged(competitionID uint, limit, offset int) ([]models.Submission, int64, error) {
	var total int64
	err := r.db.Model(&models.Submission{}).
		Where("competition_id = ?", competitionID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var submissions []models.Submission
	err = r.db.Preload("User").
		Where("competition_id = ?", competitionID).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	return submissions, total, err
}

// FindEarliestByFingerprint returns the oldest submission with identical
// content for the same user and competition, or nil when the content has not
// been seen before.
func (r *submissionRepository) FindEarliestByFingerprint(userID, competitionID uint, fingerprint string) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.Where("user_id = ? AND competition_id = ? AND fingerprint = ?", userID, competitionID, fingerprint).
		Order("submitted_at ASC").
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) CountByUserAndCompetition(userID, competitionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("user_id = ? AND competition_id = ?", userID, competitionID).
		Count(&count).Error
	return count, err
}

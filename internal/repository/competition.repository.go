package repository

import (
	"gainboard/internal/models"

	"gorm.io/gorm"
)

type CompetitionRepository interface {
	CreateCompetition(competition *models.Competition) error
	GetCompetitionByID(id uint) (*models.Competition, error)
	GetCompetitionByName(name string) (*models.Competition, error)
	ListCompetitions() ([]models.Competition, error)
}

type competitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) CompetitionRepository {
	return &competitionRepository{db}
}

func (r *competitionRepository) CreateCompetition(competition *models.Competition) error {
	return r.db.Create(competition).Error
}

func (r *competitionRepository) GetCompetitionByID(id uint) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.First(&competition, id).Error
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

func (r *competitionRepository) GetCompetitionByName(name string) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.Where("name = ?", name).First(&competition).Error
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

func (r *competitionRepository) ListCompetitions() ([]models.Competition, error) {
	var competitions []models.Competition
	err := r.db.Order("created_at ASC").Find(&competitions).Error
	return competitions, err
}

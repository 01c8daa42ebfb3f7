package repositories

import (
	"studyfunnel_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurveyResponseRepository interface {
	// FindProcessedIDs returns the subset of ids already handled
	FindProcessedIDs(db *gorm.DB, responseIDs []string) (map[string]struct{}, error)
	MarkProcessed(db *gorm.DB, record *models.ProcessedSurveyResponse) error
}

type SurveyResponseRepositoryImpl struct{}

func NewSurveyResponseRepository() SurveyResponseRepository {
	return &SurveyResponseRepositoryImpl{}
}

func (r *SurveyResponseRepositoryImpl) FindProcessedIDs(db *gorm.DB, responseIDs []string) (map[string]struct{}, error) {
	seen := make(map[string]struct{}, len(responseIDs))
	if len(responseIDs) == 0 {
		return seen, nil
	}

	var ids []string
	err := db.Model(&models.ProcessedSurveyResponse{}).
		Where("response_id IN ?", responseIDs).
		Pluck("response_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

// MarkProcessed is idempotent: a second mark of the same id is ignored
func (r *SurveyResponseRepositoryImpl) MarkProcessed(db *gorm.DB, record *models.ProcessedSurveyResponse) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

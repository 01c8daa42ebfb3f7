package models

import "time"

// ProcessedSurveyResponse - provider response ids the poller has already handled
type ProcessedSurveyResponse struct {
	ResponseID  string        `gorm:"type:varchar(64);primaryKey" json:"responseId"`
	Email       *string       `gorm:"type:varchar(320)" json:"email"`
	Outcome     SurveyOutcome `gorm:"type:varchar(16);not null" json:"outcome"`
	ProcessedAt time.Time     `gorm:"not null" json:"processedAt"`
}

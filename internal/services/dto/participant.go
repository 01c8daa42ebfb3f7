package dto

import (
	"encoding/json"
	"time"

	"studyfunnel_backend/internal/survey"
)

// PendingReviewInput - a completed pre-screen, already flattened against the catalog
type PendingReviewInput struct {
	Email      string
	Name       string
	Answers    []survey.QA
	Document   json.RawMessage
	AnalyzeURL string
}

type BookParticipantInput struct {
	Email            string
	BookingTimeUTC   time.Time
	BookingTimeLocal string
	CancelLink       string
	RescheduleLink   string
}

type ListParticipantsQuery struct {
	Status string `form:"status" validate:"omitempty,participant-status"`
}

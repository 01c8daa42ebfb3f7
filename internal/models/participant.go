package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Participant - one row per unique (normalized) email
type Participant struct {
	BaseModel

	Email  string            `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	Status ParticipantStatus `gorm:"type:varchar(32);not null;index" json:"status"`

	Name          *string        `json:"name"`
	Age           *float64       `json:"age"`
	PreScreenData datatypes.JSON `json:"preScreenData,omitempty"`
	SurveyLink    *string        `gorm:"type:text" json:"surveyLink"`

	PrescreenApprovalDate *time.Time `gorm:"index" json:"prescreenApprovalDate"`
	BookingTime           *time.Time `json:"bookingTime"`
	BookingTimeLocal      *string    `gorm:"type:varchar(64)" json:"bookingTimeLocal"`
	CancelLink            *string    `gorm:"type:text" json:"cancelLink"`
	RescheduleLink        *string    `gorm:"type:text" json:"rescheduleLink"`
}

// NormalizeEmail trims surrounding whitespace and trailing semicolons.
// Matching stays case-sensitive.
func NormalizeEmail(email string) string {
	return strings.TrimRight(strings.TrimSpace(email), ";")
}

// HasPreScreenData - true when a non-null survey payload is stored
func (p *Participant) HasPreScreenData() bool {
	s := strings.TrimSpace(string(p.PreScreenData))
	return s != "" && s != "null"
}

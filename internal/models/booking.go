package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking - immutable record of an approved booking
type Booking struct {
	ID            string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	ParticipantID string       `gorm:"type:varchar(36);not null;index" json:"participantId"`
	Participant   *Participant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	Email            string    `gorm:"type:varchar(320);not null" json:"email"`
	Name             *string   `json:"name"`
	BookingTime      time.Time `gorm:"not null;index" json:"bookingTime"`
	BookingTimeLocal string    `gorm:"type:varchar(64)" json:"bookingTimeLocal"`
	CancelLink       string    `gorm:"type:text" json:"cancelLink"`
	RescheduleLink   string    `gorm:"type:text" json:"rescheduleLink"`
	SurveyLink       *string   `gorm:"type:text" json:"surveyLink"`
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

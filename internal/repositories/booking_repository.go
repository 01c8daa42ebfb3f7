package repositories

import (
	"errors"

	"studyfunnel_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingParticipantMissing = errors.New("booking participant does not exist")

// BookingWithParticipant - booking joined with the participant's current identity
type BookingWithParticipant struct {
	models.Booking
	ParticipantName  *string `gorm:"column:participant_name"`
	ParticipantEmail string  `gorm:"column:participant_email"`
}

type BookingRepository interface {
	Create(db *gorm.DB, booking *models.Booking) error
	FindAllWithParticipant(db *gorm.DB) ([]BookingWithParticipant, error)
}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

// Create checks the participant reference before inserting
func (r *BookingRepositoryImpl) Create(db *gorm.DB, booking *models.Booking) error {
	var count int64
	if err := db.Model(&models.Participant{}).Where("id = ?", booking.ParticipantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrBookingParticipantMissing
	}

	err := db.Omit("Participant").Create(booking).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrBookingParticipantMissing
	}
	return err
}

func (r *BookingRepositoryImpl) FindAllWithParticipant(db *gorm.DB) ([]BookingWithParticipant, error) {
	var rows []BookingWithParticipant
	err := db.Model(&models.Booking{}).
		Select("bookings.*, participants.name AS participant_name, participants.email AS participant_email").
		Joins("JOIN participants ON participants.id = bookings.participant_id").
		Order("bookings.booking_time DESC").
		Scan(&rows).Error
	return rows, err
}

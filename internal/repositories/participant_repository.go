package repositories

import (
	"errors"
	"time"

	"studyfunnel_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantExists   = errors.New("participant already exists")
)

type ParticipantRepository interface {
	Create(db *gorm.DB, participant *models.Participant) error
	FindByID(db *gorm.DB, id string) (*models.Participant, error)
	FindByEmail(db *gorm.DB, email string) (*models.Participant, error)
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	FindAll(db *gorm.DB, status models.ParticipantStatus) ([]models.Participant, error)
	FindEligibleAwaitingBooking(db *gorm.DB) ([]models.Participant, error)
}

type ParticipantRepositoryImpl struct{}

func NewParticipantRepository() ParticipantRepository {
	return &ParticipantRepositoryImpl{}
}

func (r *ParticipantRepositoryImpl) Create(db *gorm.DB, participant *models.Participant) error {
	err := db.Create(participant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrParticipantExists
	}
	return err
}

func (r *ParticipantRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Participant, error) {
	var participant models.Participant
	err := db.First(&participant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (r *ParticipantRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Participant, error) {
	var participant models.Participant
	err := db.Where("email = ?", email).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// Update writes only the given columns; created_at is never part of fields
func (r *ParticipantRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := db.Model(&models.Participant{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// FindAll - newest created first, optionally filtered by status
func (r *ParticipantRepositoryImpl) FindAll(db *gorm.DB, status models.ParticipantStatus) ([]models.Participant, error) {
	var participants []models.Participant
	query := db.Model(&models.Participant{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&participants).Error
	return participants, err
}

func (r *ParticipantRepositoryImpl) FindEligibleAwaitingBooking(db *gorm.DB) ([]models.Participant, error) {
	var participants []models.Participant
	err := db.Where("status = ? AND booking_time IS NULL", models.ParticipantStatusEligible).
		Order("prescreen_approval_date DESC").
		Find(&participants).Error
	return participants, err
}

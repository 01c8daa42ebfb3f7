package services

import (
	"context"
	"errors"

	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/internal/services/dto"
	"studyfunnel_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type BookingService interface {
	Create(ctx context.Context, db *gorm.DB, input *dto.CreateBookingInput) (*models.Booking, error)
	List(ctx context.Context, db *gorm.DB) ([]*dto.BookingResponse, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
}

func NewBookingService(bookingRepo repositories.BookingRepository) BookingService {
	return &bookingService{bookingRepo: bookingRepo}
}

func (s *bookingService) Create(ctx context.Context, db *gorm.DB, input *dto.CreateBookingInput) (*models.Booking, error) {
	booking := &models.Booking{
		ParticipantID:    input.ParticipantID,
		Email:            input.Email,
		Name:             input.Name,
		BookingTime:      input.BookingTime.UTC(),
		BookingTimeLocal: input.BookingTimeLocal,
		CancelLink:       input.CancelLink,
		RescheduleLink:   input.RescheduleLink,
		SurveyLink:       input.SurveyLink,
	}

	if err := s.bookingRepo.Create(db, booking); err != nil {
		if errors.Is(err, repositories.ErrBookingParticipantMissing) {
			return nil, apperrors.ErrNotFound(err, "booking", "Participant not found")
		}
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "booking created", "booking_id", booking.ID, "participant_id", booking.ParticipantID)
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, db *gorm.DB) ([]*dto.BookingResponse, error) {
	rows, err := s.bookingRepo.FindAllWithParticipant(db)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return dto.NewBookingListResponse(rows), nil
}

package validator

import (
	"log"
	"time"

	"studyfunnel_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("participant-status", validateParticipantStatus)
	mustRegister("notification-type", validateNotificationType)
	mustRegister("rfc3339", validateRFC3339)
}

// empty values pass; 'required' handles them

func validateParticipantStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ParticipantStatus(value).IsValid()
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.NotificationType(value).IsValid()
}

func validateRFC3339(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return true
	}
	// offset-less timestamps are read as UTC
	_, err := time.Parse("2006-01-02T15:04:05.999999999", value)
	return err == nil
}

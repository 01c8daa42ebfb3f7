package services

// ServiceContainer holds the application's services.
type ServiceContainer struct {
	ParticipantService  ParticipantService
	NotificationService NotificationService
	BookingService      BookingService
}

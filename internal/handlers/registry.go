package handlers

// AppHandlers holds every handler the router mounts
type AppHandlers struct {
	HealthHandler       *HealthHandler
	IntakeHandler       *IntakeHandler
	NotificationHandler *NotificationHandler
	ParticipantHandler  *ParticipantHandler
}

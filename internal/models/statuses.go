package models

// --- Participant ---

type ParticipantStatus string

const (
	ParticipantStatusInterested    ParticipantStatus = "interested"
	ParticipantStatusPendingReview ParticipantStatus = "pending_review"
	ParticipantStatusEligible      ParticipantStatus = "eligible"
	ParticipantStatusBooked        ParticipantStatus = "booked"
)

var participantStatusRank = map[ParticipantStatus]int{
	ParticipantStatusInterested:    1,
	ParticipantStatusPendingReview: 2,
	ParticipantStatusEligible:      3,
	ParticipantStatusBooked:        4,
}

func (s ParticipantStatus) IsValid() bool {
	_, ok := participantStatusRank[s]
	return ok
}

// Precedes reports whether s comes strictly before other in the funnel
func (s ParticipantStatus) Precedes(other ParticipantStatus) bool {
	return participantStatusRank[s] < participantStatusRank[other]
}

// --- Notification ---

type NotificationType string

const (
	NotificationTypeEmailReceived      NotificationType = "email_received"
	NotificationTypePreScreenCompleted NotificationType = "pre_screen_completed"
	// Reporting only, never stored
	NotificationTypeEligibilityConfirmed NotificationType = "eligibility_confirmed"
	NotificationTypeBookingScheduled     NotificationType = "booking_scheduled"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeEmailReceived, NotificationTypePreScreenCompleted,
		NotificationTypeEligibilityConfirmed, NotificationTypeBookingScheduled:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusApproved NotificationStatus = "approved"
	NotificationStatusRejected NotificationStatus = "rejected"
)

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusApproved, NotificationStatusRejected:
		return true
	}
	return false
}

// IsResolved - approved and rejected are terminal
func (s NotificationStatus) IsResolved() bool {
	return s == NotificationStatusApproved || s == NotificationStatusRejected
}

// --- Survey polling ---

type SurveyOutcome string

const (
	SurveyOutcomeRecorded SurveyOutcome = "recorded"
	SurveyOutcomeSkipped  SurveyOutcome = "skipped"
)

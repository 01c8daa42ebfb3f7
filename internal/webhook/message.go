package webhook

import (
	"encoding/json"
	"time"
)

// Template names understood by the automation flow and the mail sink
const (
	TemplateInterestedParticipant  = "interested_participant"
	TemplateEligibleParticipant    = "eligible_participant"
	TemplateNonEligibleParticipant = "non_eligible_participant"
	TemplateBookingConfirmation    = "booking_confirmation"
)

// Message - one outbound state-change event.
// Fields are flattened next to the fixed keys when encoded.
type Message struct {
	ToEmail        string
	NotificationID string
	Status         string
	Timestamp      time.Time
	Template       string
	Fields         map[string]any
}

func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Fields)+5)
	for k, v := range m.Fields {
		out[k] = v
	}
	out["to_email"] = m.ToEmail
	out["notificationId"] = m.NotificationID
	out["status"] = m.Status
	out["timestamp"] = m.Timestamp.UTC().Format(time.RFC3339)
	out["template"] = m.Template
	return json.Marshal(out)
}

// Field returns a string field or ""
func (m Message) Field(key string) string {
	if v, ok := m.Fields[key].(string); ok {
		return v
	}
	return ""
}

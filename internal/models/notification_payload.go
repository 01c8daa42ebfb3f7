package models

import (
	"encoding/json"
	"fmt"
)

// Payload - closed set of per-type notification data
type Payload interface {
	Kind() NotificationType
}

// PreScreenPayload - data of a pre_screen_completed notification
type PreScreenPayload struct {
	Name string `json:"name"`
}

func (PreScreenPayload) Kind() NotificationType { return NotificationTypePreScreenCompleted }

// BookingPayload - data of a booking_scheduled notification.
// Extra keys are stored flat next to the known ones.
type BookingPayload struct {
	BookingTime    string   `json:"bookingTime"`
	CancelLink     string   `json:"cancelLink"`
	RescheduleLink string   `json:"rescheduleLink"`
	SurveyLink     *string  `json:"surveyLink,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Age            *float64 `json:"age,omitempty"`

	Extra map[string]any `json:"-"`
}

func (BookingPayload) Kind() NotificationType { return NotificationTypeBookingScheduled }

var bookingPayloadKeys = map[string]struct{}{
	"bookingTime": {}, "cancelLink": {}, "rescheduleLink": {},
	"surveyLink": {}, "name": {}, "age": {},
}

type bookingPayloadFields BookingPayload

func (p BookingPayload) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(bookingPayloadFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]any, len(p.Extra)+len(bookingPayloadKeys))
	for k, v := range p.Extra {
		merged[k] = v
	}
	// typed fields win over extras with the same key
	var knownMap map[string]any
	if err := json.Unmarshal(known, &knownMap); err != nil {
		return nil, err
	}
	for k, v := range knownMap {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (p *BookingPayload) UnmarshalJSON(data []byte) error {
	var fields bookingPayloadFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*p = BookingPayload(fields)
	p.Extra = nil
	for k, v := range all {
		if _, ok := bookingPayloadKeys[k]; ok {
			continue
		}
		if p.Extra == nil {
			p.Extra = map[string]any{}
		}
		p.Extra[k] = v
	}
	return nil
}

// DecodePayload selects the variant by notification type.
// email_received carries no payload and decodes to nil.
func DecodePayload(t NotificationType, raw []byte) (Payload, error) {
	switch t {
	case NotificationTypeEmailReceived:
		return nil, nil
	case NotificationTypePreScreenCompleted:
		var p PreScreenPayload
		if err := decodeInto(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case NotificationTypeBookingScheduled:
		var p BookingPayload
		if err := decodeInto(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("no payload defined for notification type %q", t)
	}
}

func decodeInto(raw []byte, target any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("invalid notification data: %w", err)
	}
	return nil
}

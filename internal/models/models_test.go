package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  a@x.com;; "))
	assert.Equal(t, "A@X.com", NormalizeEmail("A@X.com"), "case is preserved")
	assert.Equal(t, "", NormalizeEmail(" ; "))
}

func TestParticipantStatus_Precedes(t *testing.T) {
	assert.True(t, ParticipantStatusInterested.Precedes(ParticipantStatusPendingReview))
	assert.True(t, ParticipantStatusEligible.Precedes(ParticipantStatusBooked))
	assert.False(t, ParticipantStatusBooked.Precedes(ParticipantStatusEligible))
	assert.False(t, ParticipantStatusEligible.Precedes(ParticipantStatusEligible))
}

func TestBookingPayload_ExtraIsFlattened(t *testing.T) {
	name := "Jo Lee"
	n := &Notification{Type: NotificationTypeBookingScheduled}
	require.NoError(t, n.SetPayload(BookingPayload{
		BookingTime:    "2025-06-13T13:30:00.000-04:00",
		CancelLink:     "http://c",
		RescheduleLink: "http://r",
		Name:           &name,
		Extra: map[string]any{
			"bookingTimeUtc": "2025-06-13T17:30:00.000Z",
			"cancelLink":     "ignored",
		},
	}))

	var flat map[string]any
	require.NoError(t, json.Unmarshal(n.Data, &flat))
	assert.Equal(t, "2025-06-13T17:30:00.000Z", flat["bookingTimeUtc"])
	assert.Equal(t, "http://c", flat["cancelLink"], "typed field wins over extra")
	assert.NotContains(t, flat, "age")

	p, err := n.Payload()
	require.NoError(t, err)
	booking, ok := p.(BookingPayload)
	require.True(t, ok)
	assert.Equal(t, "Jo Lee", *booking.Name)
	assert.Equal(t, map[string]any{"bookingTimeUtc": "2025-06-13T17:30:00.000Z"}, booking.Extra)
}

func TestSetPayload_RejectsWrongVariant(t *testing.T) {
	n := &Notification{Type: NotificationTypeEmailReceived}
	assert.Error(t, n.SetPayload(PreScreenPayload{Name: "Jo"}))
}

func TestDataMap_DegradesOnMalformedJSON(t *testing.T) {
	n := &Notification{Data: datatypes.JSON(`{"name":`)}
	assert.Equal(t, map[string]any{}, n.DataMap())

	n.Data = nil
	assert.Nil(t, n.DataMap())

	n.Data = datatypes.JSON(`{"name":"Jo"}`)
	assert.Equal(t, map[string]any{"name": "Jo"}, n.DataMap())
}

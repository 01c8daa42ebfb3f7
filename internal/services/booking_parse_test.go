package services

import (
	"testing"
	"time"

	"studyfunnel_backend/internal/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBookingLinks(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		cancel     string
		reschedule string
	}{
		{
			name:       "both links",
			body:       `Cancel: <a href="http://c">x</a> Reschedule: <a href="http://r">y</a>`,
			cancel:     "http://c",
			reschedule: "http://r",
		},
		{
			name:       "case and attributes",
			body:       `cancel:   <a target="_blank" href='https://x/cancel?id=1'>here</a><br>RESCHEDULE: <a class="b" href="https://x/re">here</a>`,
			cancel:     "https://x/cancel?id=1",
			reschedule: "https://x/re",
		},
		{
			name:   "label separated by markup does not match",
			body:   `Cancel: <b>now</b> <a href="http://c">x</a>`,
			cancel: "",
		},
		{
			name: "no links",
			body: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cancel, reschedule := extractBookingLinks(tt.body)
			assert.Equal(t, tt.cancel, cancel)
			assert.Equal(t, tt.reschedule, reschedule)
		})
	}
}

func TestParseBookingTime(t *testing.T) {
	want := time.Date(2025, 6, 13, 17, 30, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-06-13T17:30:00Z",
		"2025-06-13T13:30:00-04:00",
		"2025-06-13T17:30:00.000Z",
		"2025-06-13T17:30:00",
	} {
		got, ok := parseBookingTime(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	_, ok := parseBookingTime("next tuesday")
	assert.False(t, ok)
}

func TestDisplayBookingTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d, ok := displayBookingTime("2025-06-13T17:30:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, bookingDisplay{Date: "June 13", Day: "Friday", Time: "01:30pm"}, d)

	d, ok = displayBookingTime("2025-01-06T05:05:00-05:00", loc)
	require.True(t, ok)
	assert.Equal(t, bookingDisplay{Date: "January 6", Day: "Monday", Time: "05:05am"}, d)
}

func TestDeriveProfile(t *testing.T) {
	answers := []survey.QA{
		{QuestionText: "Please PROVIDE YOUR NAME (first)", AnswerText: "Jo"},
		{QuestionText: "What is your age?", AnswerText: "unknown"},
		{QuestionText: "Please provide your name (last)", AnswerText: "Lee"},
		{QuestionText: "Age group", AnswerText: "41.5 or so"},
		{QuestionText: "Your age", AnswerText: "60"},
	}

	p := deriveProfile("fallback", answers)
	require.NotNil(t, p.Name)
	assert.Equal(t, "Jo Lee", *p.Name)
	require.NotNil(t, p.Age)
	assert.Equal(t, 41.5, *p.Age)

	p = deriveProfile("Jo", []survey.QA{{QuestionText: "Email", AnswerText: "a@x.com"}})
	assert.Equal(t, "Jo", *p.Name)
	assert.Nil(t, p.Age)

	p = deriveProfile("", nil)
	assert.Nil(t, p.Name)
}

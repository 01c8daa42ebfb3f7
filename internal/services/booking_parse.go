package services

import (
	"regexp"
	"strings"
	"time"
)

var (
	cancelLinkPattern     = regexp.MustCompile(`(?i)Cancel:[^<]*<a [^>]*href=["']([^"']+)["']`)
	rescheduleLinkPattern = regexp.MustCompile(`(?i)Reschedule:[^<]*<a [^>]*href=["']([^"']+)["']`)
)

// layouts accepted for booking times; offset-less values are read as UTC
var bookingTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// extractBookingLinks pulls the cancel and reschedule hrefs out of a scheduler
// email body. A missing link comes back empty.
func extractBookingLinks(body string) (cancel, reschedule string) {
	if m := cancelLinkPattern.FindStringSubmatch(body); m != nil {
		cancel = m[1]
	}
	if m := rescheduleLinkPattern.FindStringSubmatch(body); m != nil {
		reschedule = m[1]
	}
	return cancel, reschedule
}

func parseBookingTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range bookingTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type bookingDisplay struct {
	Date string
	Day  string
	Time string
}

// displayBookingTime formats a stored booking time for confirmation messages,
// e.g. "June 13", "Friday", "01:30pm"
func displayBookingTime(value string, loc *time.Location) (bookingDisplay, bool) {
	t, ok := parseBookingTime(value)
	if !ok {
		return bookingDisplay{}, false
	}
	local := t.In(loc)
	return bookingDisplay{
		Date: local.Format("January 2"),
		Day:  local.Format("Monday"),
		Time: strings.ToLower(local.Format("03:04PM")),
	}, true
}

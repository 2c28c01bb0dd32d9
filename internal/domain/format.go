package domain

import "time"

const (
	// DateLayout is the dd/mm/yyyy format used in listings.
	DateLayout = "02/01/2006"
	// ClockLayout is the HH:MM format used for schedules.
	ClockLayout = "15:04"

	anonymousPublisher = "Anonymous"
)

// FormatDate renders t as dd/mm/yyyy, or "" for a nil time.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// PublisherOrAnonymous returns name, or the anonymous placeholder when empty.
func PublisherOrAnonymous(name string) string {
	if name == "" {
		return anonymousPublisher
	}
	return name
}

package utils

import (
	"fmt"
	"time"
)

const (
	slotLayout = "15:04"

	// Working hours of the wash bay. The last slot must still fit a full
	// service before closing.
	openingHour = 8
	closingHour = 18
)

// ParseTimeSlot validates an HH:MM slot against the bay's working hours.
// Both the hourly grid slots and custom times like "09:30" are accepted.
// Returns the parsed clock time on success.
func ParseTimeSlot(slot string) (time.Time, error) {
	parsed, err := time.Parse(slotLayout, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: expected HH:MM", slot)
	}

	hour := parsed.Hour()
	if hour < openingHour || hour >= closingHour {
		return time.Time{}, fmt.Errorf(
			"time slot %q is outside working hours (%02d:00-%02d:00)",
			slot, openingHour, closingHour,
		)
	}

	return parsed, nil
}

// ValidTimeSlots lists the standard hourly slots offered for a day. Custom
// times inside working hours are also accepted by ParseTimeSlot.
func ValidTimeSlots() []string {
	slots := make([]string, 0, closingHour-openingHour)
	for hour := openingHour; hour < closingHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

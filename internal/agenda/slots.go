package agenda

import "fmt"

// Business hours of the clinic. Slots are 15-minute increments from OpenHour
// (inclusive) to CloseHour (exclusive), so the last slot of the day starts at
// CloseHour-1:45.
const (
	OpenHour    = 9
	CloseHour   = 20
	SlotMinutes = 15
)

var slots = buildSlots()

func buildSlots() []string {
	var out []string
	for h := OpenHour; h < CloseHour; h++ {
		for m := 0; m < 60; m += SlotMinutes {
			out = append(out, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return out
}

// Slots returns the ordered catalog of "HH:MM" times a turno can occupy.
// Callers must not mutate the returned slice.
func Slots() []string { return slots }

// ValidSlot reports whether hora is one of the catalog times.
func ValidSlot(hora string) bool {
	for _, s := range slots {
		if s == hora {
			return true
		}
	}
	return false
}

package models

import (
	"strings"
	"time"
)

// Attendee represents one invitation's RSVP outcome, covering one or more
// named guests.
type Attendee struct {
	ID             string    `json:"id"`
	Names          []string  `json:"names"`
	NumberOfGuests int       `json:"number_of_guests"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
	Archived       bool      `json:"archived"`
	TableNumber    *int      `json:"table_number,omitempty"`
	SpecialMessage string    `json:"special_message,omitempty"`
}

// MaxSpecialMessageLen bounds the free-text message captured at RSVP time.
const MaxSpecialMessageLen = 200

// NicaraguaTime is the zone all user-facing timestamps are rendered in.
var NicaraguaTime = mustLoadLocation("America/Managua")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatConfirmedAt renders a confirmation timestamp the way the admin roster
// and notification messages display it: dd/mm/yyyy HH:MM in Managua time.
func FormatConfirmedAt(t time.Time) string {
	if t.IsZero() {
		return "Fecha no disponible"
	}
	return t.In(NicaraguaTime).Format("02/01/2006 15:04")
}

// NormalizeNames collapses the two persisted record shapes into the canonical
// ordered name list. Records written before the multi-name format carry a
// single legacy name; current records carry the full list. Blank entries are
// dropped, order is preserved.
func NormalizeNames(legacyName string, names []string) []string {
	out := make([]string, 0, len(names)+1)
	for _, n := range names {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		if trimmed := strings.TrimSpace(legacyName); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CleanNames trims every entry and reports how many slots were left blank.
func CleanNames(names []string) (cleaned []string, blanks int) {
	cleaned = make([]string, 0, len(names))
	for _, n := range names {
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			blanks++
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned, blanks
}

// DisplayName joins guest names for greetings and notification payloads.
func DisplayName(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " y " + names[len(names)-1]
	}
}

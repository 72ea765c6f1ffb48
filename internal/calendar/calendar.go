// Package calendar builds the "save the date" artifacts: a Google Calendar
// deep link and a downloadable ICS payload. Both are pure functions of the
// event descriptor.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"invitacion-boda/internal/models"
)

const (
	googleCalendarBase = "https://www.google.com/calendar/render"
	eventUID           = "invitacion-boda-evento"
	utcStampLayout     = "20060102T150405Z"
	localStampLayout   = "20060102T150405"
)

// Artifacts bundles both calendar outputs for the invitation response.
type Artifacts struct {
	GoogleURL  string `json:"google_url"`
	ICSDataURI string `json:"ics_data_uri"`
}

// Build produces both artifacts for an event.
func Build(ev models.Event) (Artifacts, error) {
	icsURI, err := ICSDataURI(ev)
	if err != nil {
		return Artifacts{}, err
	}
	return Artifacts{
		GoogleURL:  GoogleCalendarURL(ev),
		ICSDataURI: icsURI,
	}, nil
}

// fullDescription appends the ceremony and reception location lines to the
// base description when present.
func fullDescription(ev models.Event) string {
	desc := ev.Description
	if ev.CeremonyLocation != "" {
		desc += "\n\nUbicación Ceremonia: " + ev.CeremonyLocation
	}
	if ev.ReceptionLocation != "" {
		desc += "\n\nUbicación Recepción: " + ev.ReceptionLocation
	}
	return desc
}

// GoogleCalendarURL renders the event as a Google Calendar template link,
// with the start and end instants as compact UTC timestamps.
func GoogleCalendarURL(ev models.Event) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", ev.Title)
	params.Set("dates", fmt.Sprintf("%s/%s",
		ev.Start.UTC().Format(utcStampLayout),
		ev.End.UTC().Format(utcStampLayout)))
	params.Set("details", fullDescription(ev))
	params.Set("location", ev.Location)
	params.Set("ctz", ev.TimeZone)
	return googleCalendarBase + "?" + params.Encode()
}

// ICSDataURI renders the event as a minimal VCALENDAR and wraps it in a
// text/calendar data URI, ready for an anchor download. Start and end are
// written in the event's own time zone, not UTC, so the entry displays
// correctly regardless of the guest's device zone.
func ICSDataURI(ev models.Event) (string, error) {
	loc, err := time.LoadLocation(ev.TimeZone)
	if err != nil {
		return "", fmt.Errorf("invalid time zone %q: %w", ev.TimeZone, err)
	}

	cal := ics.NewCalendar()
	event := cal.AddEvent(eventUID)
	tzid := &ics.KeyValues{Key: "TZID", Value: []string{ev.TimeZone}}
	event.SetProperty(ics.ComponentPropertyDtStart, ev.Start.In(loc).Format(localStampLayout), tzid)
	event.SetProperty(ics.ComponentPropertyDtEnd, ev.End.In(loc).Format(localStampLayout), tzid)
	// Serialize handles iCalendar TEXT escaping, newlines included.
	event.SetProperty(ics.ComponentPropertySummary, ev.Title)
	event.SetProperty(ics.ComponentPropertyDescription, fullDescription(ev))
	event.SetProperty(ics.ComponentPropertyLocation, ev.Location)

	return "data:text/calendar;charset=utf8," + encodeURIComponent(cal.Serialize()), nil
}

// encodeURIComponent matches the JavaScript escaping the download link
// format originated with: query escaping, but spaces as %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

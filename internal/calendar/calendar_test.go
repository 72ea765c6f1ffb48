package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"invitacion-boda/internal/models"
)

func testEvent() models.Event {
	start, _ := time.Parse(time.RFC3339, "2025-12-20T18:00:00-06:00")
	end, _ := time.Parse(time.RFC3339, "2025-12-21T02:00:00-06:00")
	return models.Event{
		Title:            "Nuestra Boda",
		Description:      "Te esperamos para celebrar.",
		Location:         "Managua, Nicaragua",
		CeremonyLocation: "https://maps.example/ceremonia",
		Start:            start,
		End:              end,
		TimeZone:         "America/Managua",
	}
}

func TestGoogleCalendarURL(t *testing.T) {
	ev := testEvent()
	raw := GoogleCalendarURL(ev)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("generated URL does not parse: %v", err)
	}
	if u.Host != "www.google.com" || u.Path != "/calendar/render" {
		t.Errorf("unexpected endpoint: %s%s", u.Host, u.Path)
	}

	q := u.Query()
	if got := q.Get("action"); got != "TEMPLATE" {
		t.Errorf("action = %q", got)
	}
	if got := q.Get("text"); got != ev.Title {
		t.Errorf("text = %q", got)
	}
	// Instants render as compact UTC stamps: 18:00 -06:00 is midnight UTC.
	if got := q.Get("dates"); got != "20251221T000000Z/20251221T080000Z" {
		t.Errorf("dates = %q", got)
	}
	if got := q.Get("ctz"); got != "America/Managua" {
		t.Errorf("ctz = %q", got)
	}
	details := q.Get("details")
	if !strings.Contains(details, "Ubicación Ceremonia: https://maps.example/ceremonia") {
		t.Errorf("details missing ceremony line: %q", details)
	}
	if strings.Contains(details, "Ubicación Recepción") {
		t.Errorf("details should not mention an unset reception location: %q", details)
	}
}

func TestICSDataURI(t *testing.T) {
	uri, err := ICSDataURI(testEvent())
	if err != nil {
		t.Fatalf("ICSDataURI failed: %v", err)
	}

	const prefix = "data:text/calendar;charset=utf8,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("missing data URI prefix: %q", uri[:40])
	}

	body, err := url.QueryUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}

	// Start and end render in the event's own zone, not UTC.
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"DTSTART;TZID=America/Managua:20251220T180000",
		"DTEND;TZID=America/Managua:20251221T020000",
		"SUMMARY:Nuestra Boda",
		"LOCATION:Managua",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %q:\n%s", want, body)
		}
	}

	// Description newlines are escaped per the calendar text convention,
	// exactly once: a doubled backslash would render as literal "\n" text in
	// the importing calendar app.
	if !strings.Contains(body, "\\n\\nUbicación Ceremonia") {
		t.Errorf("description newlines not escaped:\n%s", body)
	}
	if strings.Contains(body, "\\\\n") {
		t.Errorf("description newlines double-escaped:\n%s", body)
	}
}

func TestArtifactsAreDeterministic(t *testing.T) {
	ev := testEvent()
	first, err := Build(ev)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := Build(ev)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if first.GoogleURL != second.GoogleURL {
		t.Error("Google URL differs across calls")
	}
	if first.ICSDataURI != second.ICSDataURI {
		t.Error("ICS payload differs across calls")
	}
}

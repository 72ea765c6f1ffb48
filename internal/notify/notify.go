// Package notify delivers best-effort confirmation notices to the wedding
// organizers. Delivery failure never affects the RSVP itself.
package notify

import "context"

// Notice carries everything the organizer message template needs.
type Notice struct {
	GuestName        string
	NumberOfGuests   int
	ConfirmationDate string
	SpecialMessage   string
}

// Notifier sends a confirmation notice through a side channel.
type Notifier interface {
	SendConfirmation(ctx context.Context, n Notice) error
}

// Nop is used when no organizer contact is configured.
type Nop struct{}

func (Nop) SendConfirmation(context.Context, Notice) error { return nil }

package models

import "time"

// Event describes the wedding celebration as rendered on the invitation and
// fed to the calendar artifact builder.
type Event struct {
	Title             string
	Description       string
	Location          string
	CeremonyLocation  string
	ReceptionLocation string
	Start             time.Time
	End               time.Time
	TimeZone          string
}

// Invitation is the per-guest-count view of the event: the shared content
// plus how many people the pass covers.
type Invitation struct {
	Event           Event
	CoupleNames     string
	Verse           string
	DressCode       string
	GiftNote        string
	ConfirmDeadline string
	GuestCount      int
}

// Package storage provides abstractions for persistent attendee storage.
package storage

import (
	"context"
	"errors"

	"invitacion-boda/internal/models"
)

// ErrNotFound is returned when a record id does not identify any attendee.
var ErrNotFound = errors.New("attendee not found")

// Store defines the persistence operations the RSVP service needs.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateAttendee persists a new attendee and populates its ID.
	CreateAttendee(ctx context.Context, a *models.Attendee) error

	// GetAttendee retrieves an attendee by id. Returns ErrNotFound if the id
	// does not exist.
	GetAttendee(ctx context.Context, id string) (*models.Attendee, error)

	// ListAttendees returns every record, active and archived, ordered by
	// confirmation time descending.
	ListAttendees(ctx context.Context) ([]models.Attendee, error)

	// FindByAnyName returns the first record whose name list shares at least
	// one entry with the given names. Archived records still match, so a
	// cancelled confirmation is found rather than duplicated. Returns
	// ErrNotFound when nothing matches.
	FindByAnyName(ctx context.Context, names []string) (*models.Attendee, error)

	// UpdateAttendee replaces the name list and table assignment of an
	// existing record. A nil tableNumber clears the assignment.
	UpdateAttendee(ctx context.Context, id string, names []string, tableNumber *int) error

	// SetArchived writes the archived flag of an existing record.
	SetArchived(ctx context.Context, id string, archived bool) error

	// DeleteAttendee removes a record permanently.
	DeleteAttendee(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// Package service implements the RSVP reconciliation flow: matching guest
// names against existing confirmations and creating, editing, archiving and
// clearing attendee records.
package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"invitacion-boda/internal/metrics"
	"invitacion-boda/internal/models"
	"invitacion-boda/internal/notify"
	"invitacion-boda/internal/storage"
)

const notifyTimeout = 30 * time.Second

// RSVPService reconciles guest names with stored confirmations.
type RSVPService struct {
	store    storage.Store
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewRSVPService creates the service with the given storage backend and
// organizer notifier.
func NewRSVPService(store storage.Store, notifier notify.Notifier) *RSVPService {
	return &RSVPService{
		store:    store,
		notifier: notifier,
		log:      zerolog.New(os.Stdout).With().Timestamp().Str("component", "RSVP").Logger(),
	}
}

// StatusResult reports whether any of the given guests already confirmed.
// Warning carries a non-blocking notice when the lookup itself failed.
type StatusResult struct {
	Confirmed   bool      `json:"confirmed"`
	ConfirmedAt time.Time `json:"confirmed_at,omitempty"`
	RecordID    string    `json:"record_id,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	Warning     string    `json:"warning,omitempty"`
}

// CheckStatus looks for any existing record whose name list intersects the
// given names. Archived records still count as matches so a guest who
// cancelled is offered their old record instead of creating a duplicate.
// Transport errors degrade to "not confirmed" with a warning rather than
// failing the caller.
func (s *RSVPService) CheckStatus(ctx context.Context, names []string) StatusResult {
	cleaned, _ := models.CleanNames(names)
	if len(cleaned) == 0 {
		return StatusResult{Confirmed: false}
	}

	a, err := s.store.FindByAnyName(ctx, cleaned)
	if err == storage.ErrNotFound {
		return StatusResult{Confirmed: false}
	}
	if err != nil {
		s.log.Error().Err(err).Strs("names", cleaned).Msg("CheckStatus lookup failed")
		return StatusResult{
			Confirmed: false,
			Warning:   "No se pudo verificar el estado de confirmación.",
		}
	}

	return StatusResult{
		Confirmed:   true,
		ConfirmedAt: a.ConfirmedAt,
		RecordID:    a.ID,
		Archived:    a.Archived,
	}
}

// ConfirmResult reports the outcome of an RSVP submission.
type ConfirmResult struct {
	Result
	RecordID string `json:"record_id,omitempty"`
}

// Confirm validates the submitted names against the invitation's permitted
// guest count and creates the attendee record. The organizer notification is
// fired asynchronously; its failure is logged and counted, never surfaced.
func (s *RSVPService) Confirm(ctx context.Context, names []string, expectedCount int, specialMessage string) ConfirmResult {
	cleaned, blanks := models.CleanNames(names)
	if blanks > 0 || len(cleaned) == 0 {
		return ConfirmResult{Result: fail(FailureValidation, "Todos los nombres son requeridos")}
	}
	if expectedCount > 0 && len(cleaned) != expectedCount {
		return ConfirmResult{Result: fail(FailureValidation,
			fmt.Sprintf("El pase es válido para %d persona(s); ingresa exactamente %d nombre(s)", expectedCount, expectedCount))}
	}

	specialMessage = strings.TrimSpace(specialMessage)
	if len([]rune(specialMessage)) > models.MaxSpecialMessageLen {
		specialMessage = string([]rune(specialMessage)[:models.MaxSpecialMessageLen])
	}

	a := &models.Attendee{
		Names:          cleaned,
		NumberOfGuests: len(cleaned),
		ConfirmedAt:    time.Now(),
		Archived:       false,
		SpecialMessage: specialMessage,
	}
	if err := s.store.CreateAttendee(ctx, a); err != nil {
		s.log.Error().Err(err).Strs("names", cleaned).Msg("Confirm failed")
		return ConfirmResult{Result: storeFailure(err)}
	}

	metrics.ConfirmationsTotal.Inc()
	s.log.Info().Str("id", a.ID).Int("guests", a.NumberOfGuests).Msg("Attendance confirmed")

	go s.sendNotice(a)

	return ConfirmResult{
		Result:   ok("Tu asistencia ha sido confirmada. ¡Nos vemos en la boda!"),
		RecordID: a.ID,
	}
}

// sendNotice delivers the organizer notification outside the request path.
func (s *RSVPService) sendNotice(a *models.Attendee) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	message := a.SpecialMessage
	if message == "" {
		message = "Sin mensaje especial"
	}
	err := s.notifier.SendConfirmation(ctx, notify.Notice{
		GuestName:        strings.Join(a.Names, ", "),
		NumberOfGuests:   a.NumberOfGuests,
		ConfirmationDate: models.FormatConfirmedAt(a.ConfirmedAt),
		SpecialMessage:   message,
	})
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("id", a.ID).Msg("Organizer notification failed; confirmation unaffected")
	}
}

// Cancel archives a confirmation. Cancelling an already-archived record is a
// no-op success.
func (s *RSVPService) Cancel(ctx context.Context, recordID string) Result {
	if recordID == "" {
		return fail(FailureValidation, "ID de invitado inválido")
	}
	if err := s.store.SetArchived(ctx, recordID, true); err != nil {
		s.log.Error().Err(err).Str("id", recordID).Msg("Cancel failed")
		return storeFailure(err)
	}
	metrics.CancellationsTotal.Inc()
	return ok("Tu confirmación ha sido cancelada.")
}

// UpdateRecord edits a record's names and table assignment. Validation runs
// before any write: at least one non-blank name, and the table number must be
// blank (clears the assignment) or a positive integer.
func (s *RSVPService) UpdateRecord(ctx context.Context, recordID string, names []string, tableNumber string) Result {
	if recordID == "" {
		return fail(FailureValidation, "ID de invitado inválido")
	}

	cleaned, _ := models.CleanNames(names)
	if len(cleaned) == 0 {
		return fail(FailureValidation, "Al menos un nombre de invitado es requerido")
	}

	var table *int
	if trimmed := strings.TrimSpace(tableNumber); trimmed != "" {
		n, err := strconv.Atoi(trimmed)
		if err != nil || n <= 0 {
			return fail(FailureValidation, "El número de mesa debe ser un número válido mayor a 0")
		}
		table = &n
	}

	if err := s.store.UpdateAttendee(ctx, recordID, cleaned, table); err != nil {
		s.log.Error().Err(err).Str("id", recordID).Msg("UpdateRecord failed")
		return storeFailure(err)
	}
	return ok("Invitado actualizado correctamente")
}

// ToggleArchive reads the current archived flag and writes its negation.
func (s *RSVPService) ToggleArchive(ctx context.Context, recordID string) Result {
	if recordID == "" {
		return fail(FailureValidation, "ID de invitado inválido")
	}

	a, err := s.store.GetAttendee(ctx, recordID)
	if err != nil {
		s.log.Error().Err(err).Str("id", recordID).Msg("ToggleArchive lookup failed")
		return storeFailure(err)
	}
	if err := s.store.SetArchived(ctx, recordID, !a.Archived); err != nil {
		s.log.Error().Err(err).Str("id", recordID).Msg("ToggleArchive write failed")
		return storeFailure(err)
	}
	return ok("")
}

// ListAttendees returns the full roster, newest confirmation first. Listing
// fails closed to an empty roster rather than erroring the admin view.
func (s *RSVPService) ListAttendees(ctx context.Context) []models.Attendee {
	attendees, err := s.store.ListAttendees(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("ListAttendees failed; returning empty roster")
		return []models.Attendee{}
	}
	return attendees
}

// ClearResult reports the outcome of the destructive bulk clear.
type ClearResult struct {
	Result
	Removed int `json:"removed"`
}

// ClearAll enumerates every record and deletes each concurrently. There is no
// rollback: a failure partway leaves the store partially cleared and is
// reported as a generic failure without a partial count.
func (s *RSVPService) ClearAll(ctx context.Context) ClearResult {
	attendees, err := s.store.ListAttendees(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("ClearAll enumeration failed")
		return ClearResult{Result: fail(FailureBackend, "Error al limpiar la base de datos. Verifica la conexión con la base de datos.")}
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed bool
	)
	for _, a := range attendees {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.store.DeleteAttendee(ctx, id); err != nil {
				s.log.Error().Err(err).Str("id", id).Msg("ClearAll delete failed")
				mu.Lock()
				failed = true
				mu.Unlock()
			}
		}(a.ID)
	}
	wg.Wait()

	if failed {
		return ClearResult{Result: fail(FailureBackend, "Error al limpiar la base de datos. Verifica la conexión con la base de datos.")}
	}

	s.log.Info().Int("removed", len(attendees)).Msg("Roster cleared")
	return ClearResult{
		Result:  ok(fmt.Sprintf("Se eliminaron %d registros de la base de datos.", len(attendees))),
		Removed: len(attendees),
	}
}

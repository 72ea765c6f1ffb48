package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"invitacion-boda/internal/models"
	"invitacion-boda/internal/storage"
)

const attendeeColumns = "id, name, names, number_of_guests, confirmed_at, archived, table_number, special_message"

// CreateAttendee persists a new record and mirrors its names into the
// attendee_names match table.
func (s *SQLiteStore) CreateAttendee(ctx context.Context, a *models.Attendee) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.ConfirmedAt.IsZero() {
		a.ConfirmedAt = time.Now()
	}
	if a.NumberOfGuests == 0 {
		a.NumberOfGuests = len(a.Names)
	}

	namesJSON, err := json.Marshal(a.Names)
	if err != nil {
		return fmt.Errorf("failed to encode names: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO attendees (id, names, number_of_guests, confirmed_at, archived, table_number, special_message) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, string(namesJSON), a.NumberOfGuests, a.ConfirmedAt.Unix(), a.Archived, a.TableNumber, a.SpecialMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attendee: %w", err)
	}

	if err := replaceNames(ctx, tx, a.ID, a.Names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAttendee retrieves a record by id.
func (s *SQLiteStore) GetAttendee(ctx context.Context, id string) (*models.Attendee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+attendeeColumns+" FROM attendees WHERE id = ?", id)
	return scanAttendee(row)
}

// ListAttendees returns every record ordered by confirmation time descending.
func (s *SQLiteStore) ListAttendees(ctx context.Context) ([]models.Attendee, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+attendeeColumns+" FROM attendees ORDER BY confirmed_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	attendees := make([]models.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendees: %w", err)
	}
	return attendees, nil
}

// FindByAnyName returns the first record sharing at least one name with the
// given list. Archived records are deliberately not filtered out. Legacy
// single-name records match through their name column.
func (s *SQLiteStore) FindByAnyName(ctx context.Context, names []string) (*models.Attendee, error) {
	if len(names) == 0 {
		return nil, storage.ErrNotFound
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, 0, len(names)*2)
	for _, n := range names {
		args = append(args, n)
	}
	for _, n := range names {
		args = append(args, n)
	}

	query := "SELECT " + attendeeColumns + " FROM attendees WHERE id IN (" +
		"SELECT attendee_id FROM attendee_names WHERE name IN (" + placeholders + ")" +
		") OR name IN (" + placeholders + ") LIMIT 1"

	row := s.db.QueryRowContext(ctx, query, args...)
	return scanAttendee(row)
}

// UpdateAttendee replaces names and table assignment of an existing record.
func (s *SQLiteStore) UpdateAttendee(ctx context.Context, id string, names []string, tableNumber *int) error {
	namesJSON, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode names: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE attendees SET name = '', names = ?, number_of_guests = ?, table_number = ? WHERE id = ?",
		string(namesJSON), len(names), tableNumber, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}

	if err := replaceNames(ctx, tx, id, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetArchived writes the archived flag of an existing record.
func (s *SQLiteStore) SetArchived(ctx context.Context, id string, archived bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE attendees SET archived = ? WHERE id = ?", archived, id)
	if err != nil {
		return fmt.Errorf("failed to update archived flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteAttendee removes a record permanently.
func (s *SQLiteStore) DeleteAttendee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM attendees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete attendee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func replaceNames(ctx context.Context, tx *sql.Tx, id string, names []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM attendee_names WHERE attendee_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear attendee names: %w", err)
	}
	for _, name := range names {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO attendee_names (attendee_id, name) VALUES (?, ?)", id, name)
		if err != nil {
			return fmt.Errorf("failed to insert attendee name: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendee(row rowScanner) (*models.Attendee, error) {
	var (
		a           models.Attendee
		legacyName  string
		namesJSON   string
		confirmedAt int64
		tableNumber sql.NullInt64
	)
	err := row.Scan(&a.ID, &legacyName, &namesJSON, &a.NumberOfGuests, &confirmedAt, &a.Archived, &tableNumber, &a.SpecialMessage)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendee: %w", err)
	}

	var names []string
	if namesJSON != "" {
		if err := json.Unmarshal([]byte(namesJSON), &names); err != nil {
			return nil, fmt.Errorf("failed to decode names: %w", err)
		}
	}
	a.Names = models.NormalizeNames(legacyName, names)
	a.ConfirmedAt = time.Unix(confirmedAt, 0)
	if a.NumberOfGuests == 0 {
		a.NumberOfGuests = len(a.Names)
	}
	if tableNumber.Valid {
		n := int(tableNumber.Int64)
		a.TableNumber = &n
	}
	return &a, nil
}

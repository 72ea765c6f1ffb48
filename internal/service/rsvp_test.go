package service

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"invitacion-boda/internal/notify"
	"invitacion-boda/internal/storage/sqlite"
)

// recordingNotifier captures notices so tests can assert on the side channel.
type recordingNotifier struct {
	notices chan notify.Notice
	err     error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notices: make(chan notify.Notice, 8)}
}

func (r *recordingNotifier) SendConfirmation(_ context.Context, n notify.Notice) error {
	r.notices <- n
	return r.err
}

func newTestService(t *testing.T) (*RSVPService, *recordingNotifier) {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "rsvp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	notifier := newRecordingNotifier()
	return NewRSVPService(store, notifier), notifier
}

func TestConfirmThenCheckStatus(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	names := []string{"Ana Pérez", "Luis Gómez"}
	res := svc.Confirm(ctx, names, 2, "¡Qué emoción!")
	if !res.Success {
		t.Fatalf("Confirm failed: %s", res.Message)
	}
	if res.RecordID == "" {
		t.Fatal("expected a record id")
	}

	// Any single covered name finds the same record.
	status := svc.CheckStatus(ctx, []string{"Ana Pérez"})
	if !status.Confirmed {
		t.Fatal("expected confirmed status")
	}
	if status.RecordID != res.RecordID {
		t.Errorf("record id = %s, want %s", status.RecordID, res.RecordID)
	}

	// The organizer notice fires off the request path.
	select {
	case n := <-notifier.notices:
		if n.GuestName != "Ana Pérez, Luis Gómez" {
			t.Errorf("notice guest name = %q", n.GuestName)
		}
		if n.NumberOfGuests != 2 {
			t.Errorf("notice guest count = %d", n.NumberOfGuests)
		}
		if n.SpecialMessage != "¡Qué emoción!" {
			t.Errorf("notice message = %q", n.SpecialMessage)
		}
	case <-time.After(2 * time.Second):
		t.Error("organizer notice was never sent")
	}
}

func TestConfirmValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("blank name slot rejected", func(t *testing.T) {
		res := svc.Confirm(ctx, []string{"Ana Pérez", "  "}, 2, "")
		if res.Success || res.Kind != FailureValidation {
			t.Errorf("expected validation failure, got %+v", res)
		}
	})

	t.Run("count mismatch rejected", func(t *testing.T) {
		res := svc.Confirm(ctx, []string{"Ana Pérez"}, 2, "")
		if res.Success || res.Kind != FailureValidation {
			t.Errorf("expected validation failure, got %+v", res)
		}
	})

	t.Run("special message bounded to 200 characters", func(t *testing.T) {
		long := make([]rune, 0, 300)
		for i := 0; i < 300; i++ {
			long = append(long, 'á')
		}
		res := svc.Confirm(ctx, []string{"Ana Pérez"}, 1, string(long))
		if !res.Success {
			t.Fatalf("Confirm failed: %s", res.Message)
		}
		status := svc.CheckStatus(ctx, []string{"Ana Pérez"})
		a, err := svc.store.GetAttendee(ctx, status.RecordID)
		if err != nil {
			t.Fatalf("GetAttendee failed: %v", err)
		}
		if got := len([]rune(a.SpecialMessage)); got != 200 {
			t.Errorf("stored message length = %d, want 200", got)
		}
	})
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res := svc.Confirm(ctx, []string{"Marta Ruiz"}, 1, "")
	if !res.Success {
		t.Fatalf("Confirm failed: %s", res.Message)
	}

	first := svc.Cancel(ctx, res.RecordID)
	second := svc.Cancel(ctx, res.RecordID)
	if !first.Success || !second.Success {
		t.Errorf("cancel should succeed both times: %+v, %+v", first, second)
	}

	// Archived records remain matchable so no duplicate confirmation is made.
	status := svc.CheckStatus(ctx, []string{"Marta Ruiz"})
	if !status.Confirmed || !status.Archived {
		t.Errorf("archived record should still match: %+v", status)
	}
}

func TestUpdateRecordValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res := svc.Confirm(ctx, []string{"Ana Pérez"}, 1, "")
	if !res.Success {
		t.Fatalf("Confirm failed: %s", res.Message)
	}

	tests := []struct {
		name  string
		names []string
		table string
	}{
		{"table number zero", []string{"Ana Pérez"}, "0"},
		{"table number negative", []string{"Ana Pérez"}, "-2"},
		{"table number not numeric", []string{"Ana Pérez"}, "mesa uno"},
		{"all names blank", []string{"", "   "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := svc.UpdateRecord(ctx, res.RecordID, tt.names, tt.table)
			if r.Success || r.Kind != FailureValidation {
				t.Fatalf("expected validation failure, got %+v", r)
			}
			// The stored record is untouched.
			a, err := svc.store.GetAttendee(ctx, res.RecordID)
			if err != nil {
				t.Fatalf("GetAttendee failed: %v", err)
			}
			if !reflect.DeepEqual(a.Names, []string{"Ana Pérez"}) || a.TableNumber != nil {
				t.Errorf("record changed by rejected update: %+v", a)
			}
		})
	}

	t.Run("valid update applies", func(t *testing.T) {
		r := svc.UpdateRecord(ctx, res.RecordID, []string{" Ana P. de Gómez "}, " 5 ")
		if !r.Success {
			t.Fatalf("UpdateRecord failed: %s", r.Message)
		}
		a, _ := svc.store.GetAttendee(ctx, res.RecordID)
		if !reflect.DeepEqual(a.Names, []string{"Ana P. de Gómez"}) {
			t.Errorf("Names = %v", a.Names)
		}
		if a.TableNumber == nil || *a.TableNumber != 5 {
			t.Errorf("TableNumber = %v, want 5", a.TableNumber)
		}
	})

	t.Run("blank table number clears assignment", func(t *testing.T) {
		r := svc.UpdateRecord(ctx, res.RecordID, []string{"Ana P. de Gómez"}, "  ")
		if !r.Success {
			t.Fatalf("UpdateRecord failed: %s", r.Message)
		}
		a, _ := svc.store.GetAttendee(ctx, res.RecordID)
		if a.TableNumber != nil {
			t.Errorf("TableNumber should be cleared, got %v", *a.TableNumber)
		}
	})

	t.Run("unknown record id", func(t *testing.T) {
		r := svc.UpdateRecord(ctx, "no-such-id", []string{"Alguien"}, "")
		if r.Success || r.Kind != FailureNotFound {
			t.Errorf("expected not-found failure, got %+v", r)
		}
	})
}

func TestToggleArchive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res := svc.Confirm(ctx, []string{"Ana Pérez"}, 1, "")
	if !res.Success {
		t.Fatalf("Confirm failed: %s", res.Message)
	}

	if r := svc.ToggleArchive(ctx, res.RecordID); !r.Success {
		t.Fatalf("ToggleArchive failed: %s", r.Message)
	}
	a, _ := svc.store.GetAttendee(ctx, res.RecordID)
	if !a.Archived {
		t.Error("expected record archived after first toggle")
	}

	if r := svc.ToggleArchive(ctx, res.RecordID); !r.Success {
		t.Fatalf("ToggleArchive failed: %s", r.Message)
	}
	a, _ = svc.store.GetAttendee(ctx, res.RecordID)
	if a.Archived {
		t.Error("expected record active after second toggle")
	}

	r := svc.ToggleArchive(ctx, "no-such-id")
	if r.Success || r.Kind != FailureNotFound {
		t.Errorf("expected not-found failure, got %+v", r)
	}
	if r.Message != "Invitado no encontrado" {
		t.Errorf("message = %q", r.Message)
	}
}

func TestClearAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("empty roster clears zero", func(t *testing.T) {
		r := svc.ClearAll(ctx)
		if !r.Success || r.Removed != 0 {
			t.Errorf("expected success with 0 removed, got %+v", r)
		}
	})

	t.Run("clears every record", func(t *testing.T) {
		for _, name := range []string{"Ana Pérez", "Luis Gómez", "Marta Ruiz"} {
			if res := svc.Confirm(ctx, []string{name}, 1, ""); !res.Success {
				t.Fatalf("Confirm failed: %s", res.Message)
			}
		}
		r := svc.ClearAll(ctx)
		if !r.Success || r.Removed != 3 {
			t.Fatalf("expected 3 removed, got %+v", r)
		}
		if list := svc.ListAttendees(ctx); len(list) != 0 {
			t.Errorf("roster not empty after clear: %d", len(list))
		}
	})
}

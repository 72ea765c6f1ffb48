package service

import (
	"errors"

	"invitacion-boda/internal/storage"
)

// FailureKind classifies why an operation failed so callers can decide how to
// present it without inspecting wrapped errors.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureNotFound   FailureKind = "not_found"
	FailureValidation FailureKind = "validation"
	FailureBackend    FailureKind = "backend_unavailable"
	FailureUnknown    FailureKind = "unknown"
)

// Result is the common success/failure shape returned by mutating operations.
// Message is a human-readable Spanish string safe to show to the user.
type Result struct {
	Success bool        `json:"success"`
	Kind    FailureKind `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func fail(kind FailureKind, message string) Result {
	return Result{Success: false, Kind: kind, Message: message}
}

// storeFailure maps a storage error onto the failure taxonomy with a message
// a guest or admin can act on.
func storeFailure(err error) Result {
	if errors.Is(err, storage.ErrNotFound) {
		return fail(FailureNotFound, "Invitado no encontrado")
	}
	return fail(FailureBackend, "La base de datos no está disponible. Revisa tu conexión e inténtalo de nuevo.")
}

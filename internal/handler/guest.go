package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"invitacion-boda/internal/calendar"
	"invitacion-boda/internal/config"
	"invitacion-boda/internal/httpx"
	"invitacion-boda/internal/models"
	"invitacion-boda/internal/service"
)

// Session keys for the guest identification flow. They mirror the ephemeral
// browser state the confirmation view reads.
const (
	sessionKeyNames = "guestNames"
	sessionKeyCount = "guestCount"
)

var validate = validator.New()

// GuestHandler serves the invitation content and the RSVP flow.
type GuestHandler struct {
	svc      *service.RSVPService
	cfg      *config.Config
	sessions *session.Store
}

// NewGuestHandler creates the guest-facing handler.
func NewGuestHandler(svc *service.RSVPService, cfg *config.Config, sessions *session.Store) *GuestHandler {
	return &GuestHandler{svc: svc, cfg: cfg, sessions: sessions}
}

// Landing returns the minimal landing payload: who is getting married, when,
// and until when guests may confirm.
func (h *GuestHandler) Landing(c *fiber.Ctx) error {
	return httpx.JsonOK(c, "", fiber.Map{
		"couple_names":     h.cfg.CoupleNames,
		"event_date":       h.cfg.EventStart.Format(time.RFC3339),
		"confirm_deadline": h.cfg.ConfirmDeadline,
	})
}

// Invitation returns the full event content for a pass covering :count
// people. A missing or malformed count falls back to 1.
func (h *GuestHandler) Invitation(c *fiber.Ctx) error {
	count := parseGuestCount(c.Params("count"))

	artifacts, err := calendar.Build(h.cfg.Event())
	if err != nil {
		return httpx.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el enlace de calendario.")
	}

	inv := models.Invitation{
		Event:           h.cfg.Event(),
		CoupleNames:     h.cfg.CoupleNames,
		Verse:           h.cfg.Verse,
		DressCode:       h.cfg.DressCode,
		GiftNote:        h.cfg.GiftNote,
		ConfirmDeadline: h.cfg.ConfirmDeadline,
		GuestCount:      count,
	}

	return httpx.JsonOK(c, "", fiber.Map{
		"title":            inv.Event.Title,
		"description":      inv.Event.Description,
		"couple_names":     inv.CoupleNames,
		"verse":            inv.Verse,
		"location":         inv.Event.Location,
		"ceremony_map_url": inv.Event.CeremonyLocation,
		"dress_code":       inv.DressCode,
		"gift_note":        inv.GiftNote,
		"confirm_deadline": inv.ConfirmDeadline,
		"starts_at":        inv.Event.Start.Format(time.RFC3339),
		"ends_at":          inv.Event.End.Format(time.RFC3339),
		"time_zone":        inv.Event.TimeZone,
		"guest_count":      count,
		"pass_note":        fmt.Sprintf("Pase válido para %d persona%s", count, plural(count)),
		"calendar":         artifacts,
	})
}

// CalendarArtifacts returns just the calendar link and ICS payload.
func (h *GuestHandler) CalendarArtifacts(c *fiber.Ctx) error {
	artifacts, err := calendar.Build(h.cfg.Event())
	if err != nil {
		return httpx.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el enlace de calendario.")
	}
	return httpx.JsonOK(c, "", artifacts)
}

type guestSessionRequest struct {
	Names      []string `json:"names" validate:"required,min=1"`
	GuestCount int      `json:"guest_count"`
}

// StartSession collects one name per allowed guest slot and persists them in
// the session, then immediately reports the reconciliation status.
func (h *GuestHandler) StartSession(c *fiber.Ctx) error {
	var body guestSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if err := validate.Struct(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Por favor, ingresa tu nombre completo.")
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return httpx.JsonError(c, fiber.StatusInternalServerError, "No se pudo iniciar la sesión.")
	}

	count := h.resolveGuestCount(sess, body.GuestCount)
	cleaned, blanks := models.CleanNames(body.Names)
	if len(body.Names) > count {
		return httpx.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("El pase es válido para %d persona%s; ingresa solo %d nombre%s", count, plural(count), count, plural(count)))
	}
	if len(body.Names) != count || blanks > 0 {
		missing := count - len(cleaned)
		return httpx.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Faltan %d nombre(s) por ingresar para completar el pase de %d persona%s", missing, count, plural(count)))
	}

	namesJSON, _ := json.Marshal(cleaned)
	sess.Set(sessionKeyNames, string(namesJSON))
	sess.Set(sessionKeyCount, count)
	if err := sess.Save(); err != nil {
		return httpx.JsonError(c, fiber.StatusInternalServerError, "No se pudo guardar la sesión.")
	}

	status := h.svc.CheckStatus(c.Context(), cleaned)
	return httpx.JsonOK(c, "", statusPayload(status, cleaned, count))
}

// Session returns the stored guest names and count for the confirmation view.
func (h *GuestHandler) Session(c *fiber.Ctx) error {
	names, count, ok := h.sessionNames(c)
	if !ok {
		return httpx.JsonError(c, fiber.StatusNotFound, "No hay una sesión de invitado activa.")
	}
	return httpx.JsonOK(c, "", fiber.Map{
		"names":        names,
		"display_name": models.DisplayName(names),
		"guest_count":  count,
	})
}

// EndSession clears the guest identification ("cambiar nombre").
func (h *GuestHandler) EndSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		sess.Delete(sessionKeyNames)
		sess.Delete(sessionKeyCount)
		_ = sess.Save()
	}
	return httpx.JsonOK(c, "", nil)
}

// Status reports the confirmation status for the session's guest names.
func (h *GuestHandler) Status(c *fiber.Ctx) error {
	names, count, ok := h.sessionNames(c)
	if !ok {
		return httpx.JsonError(c, fiber.StatusNotFound, "No hay una sesión de invitado activa.")
	}
	status := h.svc.CheckStatus(c.Context(), names)
	return httpx.JsonOK(c, "", statusPayload(status, names, count))
}

type confirmRequest struct {
	SpecialMessage string `json:"special_message" validate:"max=200"`
}

// Confirm submits the RSVP for the session's guest names.
func (h *GuestHandler) Confirm(c *fiber.Ctx) error {
	names, count, ok := h.sessionNames(c)
	if !ok {
		return httpx.JsonError(c, fiber.StatusNotFound, "No hay una sesión de invitado activa.")
	}

	var body confirmRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return httpx.JsonError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
	}
	if err := validate.Struct(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "El mensaje especial no puede superar los 200 caracteres")
	}

	res := h.svc.Confirm(c.Context(), names, count, body.SpecialMessage)
	if !res.Success {
		return httpx.FromResult(c, res.Result, nil)
	}
	return httpx.JsonCreated(c, res.Message, fiber.Map{"record_id": res.RecordID})
}

type cancelRequest struct {
	RecordID string `json:"record_id"`
}

// CancelRSVP archives the confirmation. The record id may come in the body;
// otherwise it is resolved from the session names.
func (h *GuestHandler) CancelRSVP(c *fiber.Ctx) error {
	var body cancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return httpx.JsonError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}
	}

	recordID := body.RecordID
	if recordID == "" {
		names, _, ok := h.sessionNames(c)
		if !ok {
			return httpx.JsonError(c, fiber.StatusNotFound, "No hay una sesión de invitado activa.")
		}
		status := h.svc.CheckStatus(c.Context(), names)
		if !status.Confirmed {
			return httpx.JsonError(c, fiber.StatusNotFound, "No existe una confirmación para cancelar.")
		}
		recordID = status.RecordID
	}

	return httpx.FromResult(c, h.svc.Cancel(c.Context(), recordID), nil)
}

// sessionNames reads the guest identification from the session.
func (h *GuestHandler) sessionNames(c *fiber.Ctx) ([]string, int, bool) {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return nil, 0, false
	}
	raw, _ := sess.Get(sessionKeyNames).(string)
	if raw == "" {
		return nil, 0, false
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil || len(names) == 0 {
		return nil, 0, false
	}
	count, _ := sess.Get(sessionKeyCount).(int)
	if count < 1 {
		count = len(names)
	}
	return names, count, true
}

// resolveGuestCount picks the permitted count: prior session value first,
// then the count carried over from the invitation route, then 1.
func (h *GuestHandler) resolveGuestCount(sess *session.Session, requested int) int {
	if stored, ok := sess.Get(sessionKeyCount).(int); ok && stored >= 1 {
		return stored
	}
	if requested >= 1 {
		return requested
	}
	return 1
}

func statusPayload(status service.StatusResult, names []string, count int) fiber.Map {
	payload := fiber.Map{
		"confirmed":    status.Confirmed,
		"names":        names,
		"display_name": models.DisplayName(names),
		"guest_count":  count,
	}
	if status.Confirmed {
		payload["record_id"] = status.RecordID
		payload["archived"] = status.Archived
		payload["confirmed_at"] = models.FormatConfirmedAt(status.ConfirmedAt)
	}
	if status.Warning != "" {
		payload["warning"] = status.Warning
	}
	return payload
}

func parseGuestCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"invitacion-boda/internal/auth"
	"invitacion-boda/internal/httpx"
	"invitacion-boda/internal/models"
	"invitacion-boda/internal/service"
)

// AdminHandler serves the roster management panel.
type AdminHandler struct {
	svc  *service.RSVPService
	gate *auth.Gate
}

// NewAdminHandler creates the admin-facing handler.
func NewAdminHandler(svc *service.RSVPService, gate *auth.Gate) *AdminHandler {
	return &AdminHandler{svc: svc, gate: gate}
}

type loginRequest struct {
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login validates the static credentials and issues a session token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if err := validate.Struct(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Usuario y contraseña son requeridos")
	}

	token, err := h.gate.Login(body.User, body.Password)
	if err != nil {
		return httpx.JsonError(c, fiber.StatusUnauthorized, "Credenciales incorrectas. Por favor, inténtalo de nuevo.")
	}
	return httpx.JsonOK(c, "Inicio de sesión exitoso", fiber.Map{"token": token})
}

// Middleware applies the gate decision to every admin route. Unauthenticated
// requests get a 401 carrying the login route to redirect to.
func (h *AdminHandler) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		decision := h.gate.Allow(token, c.Path())
		if !decision.Allow {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":  false,
				"message":  "Sesión no válida. Inicia sesión de nuevo.",
				"redirect": decision.RedirectTo,
			})
		}
		return c.Next()
	}
}

// attendeeDTO is the roster row shape: the record plus its confirmation time
// rendered the way the panel displays it.
type attendeeDTO struct {
	ID             string   `json:"id"`
	Names          []string `json:"names"`
	NumberOfGuests int      `json:"number_of_guests"`
	ConfirmedAt    string   `json:"confirmed_at"`
	Archived       bool     `json:"archived"`
	TableNumber    *int     `json:"table_number,omitempty"`
	SpecialMessage string   `json:"special_message,omitempty"`
}

func toAttendeeDTO(a models.Attendee) attendeeDTO {
	return attendeeDTO{
		ID:             a.ID,
		Names:          a.Names,
		NumberOfGuests: a.NumberOfGuests,
		ConfirmedAt:    models.FormatConfirmedAt(a.ConfirmedAt),
		Archived:       a.Archived,
		TableNumber:    a.TableNumber,
		SpecialMessage: a.SpecialMessage,
	}
}

// List returns every record, newest first. The active/archived tabs filter
// client-side on the archived flag.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	attendees := h.svc.ListAttendees(c.Context())
	rows := make([]attendeeDTO, 0, len(attendees))
	active := 0
	for _, a := range attendees {
		if !a.Archived {
			active++
		}
		rows = append(rows, toAttendeeDTO(a))
	}
	return httpx.JsonOK(c, "", fiber.Map{
		"attendees": rows,
		"total":     len(rows),
		"active":    active,
		"archived":  len(rows) - active,
	})
}

type updateAttendeeRequest struct {
	Names       []string `json:"names" validate:"required,min=1"`
	TableNumber string   `json:"table_number"`
}

// Update edits a record's guest names and table assignment.
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	var body updateAttendeeRequest
	if err := c.BodyParser(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if err := validate.Struct(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Al menos un nombre de invitado es requerido")
	}

	res := h.svc.UpdateRecord(c.Context(), c.Params("id"), body.Names, body.TableNumber)
	return httpx.FromResult(c, res, nil)
}

// ToggleArchive flips a record between the active and archived tabs.
func (h *AdminHandler) ToggleArchive(c *fiber.Ctx) error {
	return httpx.FromResult(c, h.svc.ToggleArchive(c.Context(), c.Params("id")), nil)
}

type clearRequest struct {
	Password string `json:"password" validate:"required"`
}

// ClearAll deletes every record. The admin password must be re-submitted to
// confirm the destructive operation.
func (h *AdminHandler) ClearAll(c *fiber.Ctx) error {
	var body clearRequest
	if err := c.BodyParser(&body); err != nil {
		return httpx.JsonError(c, fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if err := validate.Struct(&body); err != nil || !h.gate.CheckPassword(body.Password) {
		return httpx.JsonError(c, fiber.StatusForbidden, "Contraseña incorrecta. La base de datos no fue modificada.")
	}

	res := h.svc.ClearAll(c.Context())
	if !res.Success {
		return httpx.FromResult(c, res.Result, nil)
	}
	return httpx.JsonOK(c, res.Message, fiber.Map{"removed": res.Removed})
}

func bearerToken(c *fiber.Ctx) string {
	const prefix = "Bearer "
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

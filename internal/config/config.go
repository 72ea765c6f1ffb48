package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"invitacion-boda/internal/models"
)

// Config holds the application configuration. All wedding content lives here
// so one deployment serves one wedding; a new couple is a new .env.
type Config struct {
	Port   string
	DBPath string

	AdminUser     string
	AdminPassword string
	JWTSecret     string

	NotifyEnabled   bool
	WhatsAppDataDir string
	OrganizerPhones []string

	CoupleNames     string
	EventTitle      string
	EventDesc       string
	EventLocation   string
	CeremonyMapURL  string
	ReceptionMapURL string
	EventStart      time.Time
	EventEnd        time.Time
	TimeZone        string
	Verse           string
	DressCode       string
	GiftNote        string
	ConfirmDeadline string
}

// LoadConfig loads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found; using environment only")
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/attendees.db"),

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		JWTSecret:     getEnv("JWT_SECRET", "cambia-este-secreto"),

		NotifyEnabled:   getEnv("NOTIFY_ENABLED", "false") == "true",
		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),
		OrganizerPhones: splitList(getEnv("ORGANIZER_PHONES", "")),

		CoupleNames:     getEnv("COUPLE_NAMES", "Kevin Zuniga & Alison Ney"),
		EventTitle:      getEnv("EVENT_TITLE", "Nuestra Boda - Alison Ney & Kevin Zuniga"),
		EventDesc:       getEnv("EVENT_DESCRIPTION", "¡Acompáñanos a celebrar nuestra unión! Te esperamos para compartir este día tan especial."),
		EventLocation:   getEnv("EVENT_LOCATION", "Barrio San Judas, casa de habitación"),
		CeremonyMapURL:  getEnv("CEREMONY_MAP_URL", "https://maps.app.goo.gl/U5ZiL6hu6SSVn8m8A"),
		ReceptionMapURL: getEnv("RECEPTION_MAP_URL", ""),
		EventStart:      getEnvTime("EVENT_START", "2025-12-20T18:00:00-06:00"),
		EventEnd:        getEnvTime("EVENT_END", "2025-12-21T02:00:00-06:00"),
		TimeZone:        getEnv("EVENT_TIMEZONE", "America/Managua"),
		Verse:           getEnv("EVENT_VERSE", "... No me ruegues que te deje y que me aparte de ti; porque adondequiera que tú fueres, iré yo. - Ruth 1:16"),
		DressCode:       getEnv("DRESS_CODE", "Formal"),
		GiftNote:        getEnv("GIFT_NOTE", "Tu presencia es nuestro mejor regalo. Si deseas obsequiarnos algo, una lluvia de sobres será bien recibida."),
		ConfirmDeadline: getEnv("CONFIRM_DEADLINE", "28 de Noviembre 2025"),
	}
}

// Event builds the event descriptor the invitation and calendar builder use.
func (c *Config) Event() models.Event {
	return models.Event{
		Title:             c.EventTitle,
		Description:       c.EventDesc,
		Location:          c.EventLocation,
		CeremonyLocation:  c.CeremonyMapURL,
		ReceptionLocation: c.ReceptionMapURL,
		Start:             c.EventStart,
		End:               c.EventEnd,
		TimeZone:          c.TimeZone,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvTime(key, defaultValue string) time.Time {
	raw := getEnv(key, defaultValue)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid RFC3339 timestamp; using default")
		t, _ = time.Parse(time.RFC3339, defaultValue)
	}
	return t
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"invitacion-boda/internal/auth"
	"invitacion-boda/internal/config"
	"invitacion-boda/internal/handler"
	"invitacion-boda/internal/notify"
	"invitacion-boda/internal/service"
	"invitacion-boda/internal/storage/sqlite"
)

const sessionTTL = 12 * time.Hour

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.New(os.Stdout).With().Timestamp().Logger())

	cfg := config.LoadConfig()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer store.Close()
	log.Info().Str("database", cfg.DBPath).Msg("Storage initialized")

	notifier, cleanup := buildNotifier(cfg)
	defer cleanup()

	svc := service.NewRSVPService(store, notifier)
	gate := auth.NewGate(cfg.AdminUser, cfg.AdminPassword, cfg.JWTSecret, handler.AdminLoginPath, sessionTTL)
	sessions := session.New(session.Config{Expiration: sessionTTL})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestLogger())

	handler.Register(app, svc, cfg, gate, sessions)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Wedding invitation server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info().Msg("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

// buildNotifier connects the WhatsApp channel when enabled and configured,
// otherwise falls back to the no-op notifier.
func buildNotifier(cfg *config.Config) (notify.Notifier, func()) {
	if !cfg.NotifyEnabled || len(cfg.OrganizerPhones) == 0 {
		log.Info().Msg("Organizer notifications disabled")
		return notify.Nop{}, func() {}
	}

	wa, err := notify.NewWhatsApp(&notify.WhatsAppConfig{
		DataDir:         cfg.WhatsAppDataDir,
		OrganizerPhones: cfg.OrganizerPhones,
	})
	if err != nil {
		log.Warn().Err(err).Msg("WhatsApp notifier unavailable; confirmations will not notify organizers")
		return notify.Nop{}, func() {}
	}
	if err := wa.Connect(); err != nil {
		log.Warn().Err(err).Msg("WhatsApp connection failed; confirmations will not notify organizers")
		return notify.Nop{}, func() {}
	}
	log.Info().Int("organizers", len(cfg.OrganizerPhones)).Msg("WhatsApp notifier connected")
	return wa, wa.Disconnect
}

// requestLogger logs every request with its status and duration.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
		return err
	}
}

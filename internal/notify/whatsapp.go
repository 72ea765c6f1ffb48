package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

// WhatsAppConfig configures the organizer-side WhatsApp channel.
type WhatsAppConfig struct {
	DataDir         string
	OrganizerPhones []string
}

// WhatsApp sends confirmation notices to the organizers' phones. The device
// session is persisted under DataDir; first run requires pairing via QR.
type WhatsApp struct {
	client *whatsmeow.Client
	cfg    *WhatsAppConfig
	log    zerolog.Logger
}

var _ Notifier = (*WhatsApp)(nil)

// NewWhatsApp creates the WhatsApp notifier backed by a sqlite device store.
func NewWhatsApp(cfg *WhatsAppConfig) (*WhatsApp, error) {
	ctx := context.Background()
	logger := zerolog.New(os.Stdout).With().Str("component", "WhatsApp").Logger()

	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	w := &WhatsApp{
		client: client,
		cfg:    cfg,
		log:    logger,
	}
	client.AddEventHandler(w.eventHandler)
	return w, nil
}

// NormalizePhoneNumber normalizes phone numbers to international format.
// Nicaraguan eight-digit numbers get the 505 country code prepended.
func NormalizePhoneNumber(phoneNumber string) string {
	phoneNumber = strings.ReplaceAll(phoneNumber, "+", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, " ", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, "-", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, "(", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, ")", "")

	if len(phoneNumber) == 8 {
		phoneNumber = "505" + phoneNumber
	}
	return phoneNumber
}

// Connect connects the client, printing a pairing QR code on first run.
func (w *WhatsApp) Connect() error {
	if w.client.Store.ID == nil {
		qrChan, _ := w.client.GetQRChannel(context.Background())
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				q, err := qrcode.New(evt.Code, qrcode.Medium)
				if err != nil {
					fmt.Printf("QR Code: %s\n", evt.Code)
				} else {
					fmt.Println("\n" + q.ToSmallString(false))
					fmt.Println("Escanea el código QR con WhatsApp (Dispositivos Vinculados) para habilitar las notificaciones.")
				}
			} else {
				w.log.Info().Str("event", evt.Event).Msg("Login event")
			}
		}
		return nil
	}
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Disconnect disconnects from WhatsApp.
func (w *WhatsApp) Disconnect() {
	w.client.Disconnect()
}

// SendConfirmation delivers the notice to every configured organizer phone.
// It returns the first send error, after attempting all recipients.
func (w *WhatsApp) SendConfirmation(ctx context.Context, n Notice) error {
	message := fmt.Sprintf(
		"🎉 *Nueva confirmación de asistencia*\n\n"+
			"Invitado(s): %s\n"+
			"Número de personas: %d\n"+
			"Fecha de confirmación: %s\n"+
			"Mensaje especial: %s",
		n.GuestName, n.NumberOfGuests, n.ConfirmationDate, n.SpecialMessage,
	)

	var firstErr error
	for _, phone := range w.cfg.OrganizerPhones {
		if err := w.sendMessage(ctx, phone, message); err != nil {
			w.log.Error().Err(err).Str("phone", phone).Msg("Failed to send confirmation notice")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// sendMessage sends a text message to a single phone number.
func (w *WhatsApp) sendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber)

	resp, err := w.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	w.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Sending message")

	sentMsg, err := w.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	w.log.Info().Str("id", sentMsg.ID).Time("timestamp", sentMsg.Timestamp).Msg("Message sent")
	return nil
}

// eventHandler logs connection lifecycle events.
func (w *WhatsApp) eventHandler(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		w.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		w.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		w.log.Info().Msg("Logged out from WhatsApp")
	}
}

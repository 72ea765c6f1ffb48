// Package metrics exposes Prometheus counters for the RSVP flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConfirmationsTotal counts successful RSVP confirmations.
	ConfirmationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsvp_confirmations_total",
		Help: "Number of RSVP confirmations created.",
	})

	// CancellationsTotal counts guest-initiated cancellations.
	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsvp_cancellations_total",
		Help: "Number of RSVP confirmations cancelled by guests.",
	})

	// NotificationFailuresTotal counts failed organizer notifications.
	// Notification delivery is best effort, so these never surface to guests.
	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsvp_notification_failures_total",
		Help: "Number of organizer notifications that failed to send.",
	})
)

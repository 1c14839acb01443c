// Package notification forwards disposition events to the notification
// collaborator. Delivery itself (email/SMS/push) happens outside this
// service; this subscriber is the integration point.
package notification

import (
	"log/slog"

	"github.com/leandro-lugaresi/hub"

	"github.com/otomarket/moderation-backend/internal/event"
)

// Start consumes report lifecycle events until the hub is closed.
func Start(h *hub.Hub) {
	go func() {
		sub := h.Subscribe(100, event.ReportCreated, event.ReportEscalated, event.ReportResolved)
		for msg := range sub.Receiver {
			slog.Info("notification dispatched",
				"action", msg.Name,
				"report_id", str(msg.Fields["report_id"]),
				"listing_id", str(msg.Fields["listing_id"]),
				"actor", str(msg.Fields["actor"]),
			)
		}
	}()
}

func str(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

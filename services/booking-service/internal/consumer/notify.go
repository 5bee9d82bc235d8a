package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/notify"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/outbox"
)

// NotifyOnBooked handles outbox.TopicConsultationBooked by emailing the client a confirmation.
func NotifyOnBooked(logger *slog.Logger, sender notify.Sender, businessZone string) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload outbox.ConsultationBooked
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid event payload", "err", err, "topic", msg.Topic)
			return nil
		}
		if payload.Email == "" {
			logger.Warn("booked event without email", "meeting_id", payload.MeetingID)
			return nil
		}
		subject, body := notify.Confirmation(payload, businessZone)
		if err := sender.Send(payload.Email, subject, body); err != nil {
			return err
		}
		logger.Info("confirmation sent", "meeting_id", payload.MeetingID)
		return nil
	}
}

package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/outbox"
)

// Invalidator drops cached booked sets for business dates.
type Invalidator interface {
	Invalidate(ctx context.Context, businessDates ...model.CalendarDate)
}

// InvalidateOnBooked handles outbox.TopicConsultationBooked by dropping the booked set of the
// meeting's business date.
func InvalidateOnBooked(logger *slog.Logger, cache Invalidator) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload outbox.ConsultationBooked
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid event payload", "err", err, "topic", msg.Topic)
			return nil
		}
		d, err := model.ParseDate(payload.BusinessDate)
		if err != nil {
			return fmt.Errorf("event %s: %w", payload.MeetingID, err)
		}
		cache.Invalidate(ctx, d)
		logger.Debug("booked cache invalidated", "date", d.String(), "meeting_id", payload.MeetingID)
		return nil
	}
}

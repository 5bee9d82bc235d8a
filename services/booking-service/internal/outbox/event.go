package outbox

import (
	"encoding/json"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// TopicConsultationBooked is both the event type and the Kafka topic.
const TopicConsultationBooked = "booking.consultation.booked.v1"

// Event is the envelope written to outbox_events.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// ConsultationBooked is the payload of TopicConsultationBooked.
type ConsultationBooked struct {
	MeetingID    string `json:"meeting_id"`
	ClientName   string `json:"client_name"`
	Email        string `json:"email"`
	ClientDate   string `json:"client_date"`
	ClientTime   string `json:"client_time"`
	ClientZone   string `json:"client_zone"`
	BusinessDate string `json:"business_date"`
	BusinessTime string `json:"business_time"`
	StartsAt     string `json:"starts_at"`
}

func NewConsultationBooked(m model.Meeting, startsAt string) (Event, error) {
	payload, err := json.Marshal(ConsultationBooked{
		MeetingID:    m.ID,
		ClientName:   m.ClientName,
		Email:        m.Email,
		ClientDate:   m.ClientDate.String(),
		ClientTime:   m.ClientTime.String(),
		ClientZone:   string(m.ClientZone),
		BusinessDate: m.BusinessDate.String(),
		BusinessTime: m.BusinessTime.String(),
		StartsAt:     startsAt,
	})
	if err != nil {
		return Event{}, err
	}
	return Event{
		AggregateType: "meeting",
		AggregateID:   m.ID,
		EventType:     TopicConsultationBooked,
		Payload:       payload,
	}, nil
}

// Package meetings speaks the meetings API: booked-slot lookup and meeting creation.
package meetings

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

// ClientDateLayout is the client-local wall clock sent as ClientsDate.
const ClientDateLayout = "2006-01-02T15:04"

const (
	CodeMissingFields = "MISSING_FIELDS"
	CodeInvalidEmail  = "INVALID_EMAIL"
	CodePastDatetime  = "PAST_DATETIME"
	CodeSlotBlocked   = "SLOT_BLOCKED"
	CodeSlotTaken     = "SLOT_TAKEN"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInvalidZone   = "INVALID_TIMEZONE"
	CodeInternal      = "INTERNAL"
)

type CreateMeetingRequest struct {
	Client          string `json:"client"`
	Content         string `json:"content"`
	Email           string `json:"email"`
	ClientsDate     string `json:"ClientsDate"`
	ClientsTimeZone string `json:"ClientsTimeZone"`
	BGdate          string `json:"BGdate"`
	BGtime          string `json:"BGtime"`
}

type MeetingResponse struct {
	ID              string `json:"id"`
	Client          string `json:"client"`
	Email           string `json:"email"`
	ClientsDate     string `json:"ClientsDate"`
	ClientsTimeZone string `json:"ClientsTimeZone"`
	BGdate          string `json:"BGdate"`
	BGtime          string `json:"BGtime"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt,omitempty"`
}

type BookedSlotsResponse struct {
	BookedSlots []string `json:"bookedSlots"`
}

type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func EncodeRequest(req model.BookingRequest) CreateMeetingRequest {
	return CreateMeetingRequest{
		Client:          req.ClientName,
		Content:         req.Description,
		Email:           req.Email,
		ClientsDate:     req.ClientDate.String() + "T" + req.ClientTime.String(),
		ClientsTimeZone: string(req.ClientZone),
		BGdate:          req.BusinessDate.String(),
		BGtime:          req.BusinessTime.String(),
	}
}

// DecodeRequest parses the wire form. Field presence is checked by the caller; only
// malformed values fail here.
func DecodeRequest(in CreateMeetingRequest) (model.BookingRequest, error) {
	out := model.BookingRequest{
		ClientName:  in.Client,
		Description: in.Content,
		Email:       in.Email,
		ClientZone:  model.ZoneID(strings.TrimSpace(in.ClientsTimeZone)),
	}
	if raw := strings.TrimSpace(in.ClientsDate); raw != "" {
		t, err := time.Parse(ClientDateLayout, raw)
		if err != nil {
			return model.BookingRequest{}, fmt.Errorf("%w: ClientsDate %q", booking.ErrIncompleteInput, raw)
		}
		out.ClientDate = model.DateOf(t)
		out.ClientTime = model.ClockTime{Hour: t.Hour(), Minute: t.Minute()}
	}
	if raw := strings.TrimSpace(in.BGdate); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return model.BookingRequest{}, fmt.Errorf("%w: BGdate %q", booking.ErrIncompleteInput, raw)
		}
		out.BusinessDate = d
	}
	if raw := strings.TrimSpace(in.BGtime); raw != "" {
		c, err := model.ParseClock(raw)
		if err != nil {
			return model.BookingRequest{}, fmt.Errorf("%w: BGtime %q", booking.ErrIncompleteInput, raw)
		}
		out.BusinessTime = c
	}
	return out, nil
}

func EncodeMeeting(m model.Meeting) MeetingResponse {
	w := EncodeRequest(m.BookingRequest)
	resp := MeetingResponse{
		ID:              m.ID,
		Client:          w.Client,
		Email:           w.Email,
		ClientsDate:     w.ClientsDate,
		ClientsTimeZone: w.ClientsTimeZone,
		BGdate:          w.BGdate,
		BGtime:          w.BGtime,
		Status:          m.Status,
	}
	if !m.CreatedAt.IsZero() {
		resp.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func decodeMeeting(in MeetingResponse, req model.BookingRequest) model.Meeting {
	m := model.Meeting{ID: in.ID, BookingRequest: req, Status: in.Status}
	if m.Status == "" {
		m.Status = model.MeetingStatusBooked
	}
	if t, err := time.Parse(time.RFC3339, in.CreatedAt); err == nil {
		m.CreatedAt = t
	}
	return m
}

// StatusFor maps a booking error onto an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrIncompleteInput):
		return http.StatusBadRequest, CodeMissingFields
	case errors.Is(err, booking.ErrInvalidEmail):
		return http.StatusBadRequest, CodeInvalidEmail
	case errors.Is(err, booking.ErrPastOrTooSoon):
		return http.StatusBadRequest, CodePastDatetime
	case errors.Is(err, booking.ErrSlotConflict):
		return http.StatusConflict, CodeSlotTaken
	case errors.Is(err, booking.ErrSlotBlocked), errors.Is(err, booking.ErrSlotUnavailable):
		return http.StatusUnprocessableEntity, CodeSlotBlocked
	case errors.Is(err, zone.ErrUnknownZone):
		return http.StatusBadRequest, CodeInvalidZone
	case errors.Is(err, booking.ErrRateLimited):
		return http.StatusTooManyRequests, CodeRateLimited
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// ErrorFor maps a non-2xx response onto the booking error taxonomy.
func ErrorFor(status int, body ErrorResponse) error {
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch {
	case status == http.StatusBadRequest && body.Code == CodePastDatetime:
		return fmt.Errorf("%w: %s", booking.ErrPastOrTooSoon, msg)
	case status == http.StatusBadRequest && body.Code == CodeInvalidEmail:
		return fmt.Errorf("%w: %s", booking.ErrInvalidEmail, msg)
	case status == http.StatusBadRequest && body.Code == CodeInvalidZone:
		return fmt.Errorf("%w: %s", zone.ErrUnknownZone, msg)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", booking.ErrIncompleteInput, msg)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", booking.ErrSlotConflict, msg)
	case status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", booking.ErrSlotBlocked, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", booking.ErrRateLimited, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", booking.ErrTransportFailure, status, msg)
	}
}

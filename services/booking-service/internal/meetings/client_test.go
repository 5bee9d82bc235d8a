package meetings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/md-rashed-zaman/consultbook/libs/httpx"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func sampleRequest() model.BookingRequest {
	return model.BookingRequest{
		ClientName:   "Ana",
		Description:  "intro call",
		Email:        "ana@example.com",
		ClientDate:   model.CalendarDate{Year: 2024, Month: time.January, Day: 15},
		ClientTime:   model.At(20),
		ClientZone:   "America/New_York",
		BusinessDate: model.CalendarDate{Year: 2024, Month: time.January, Day: 16},
		BusinessTime: model.At(3),
	}
}

func TestClient_BookedSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meetings/booked-slots/2024-01-15" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("timezone"); got != "America/New_York" {
			t.Errorf("timezone = %q", got)
		}
		if got := r.Header.Get(httpx.RequestIDHeader); got != "req-7" {
			t.Errorf("request id = %q", got)
		}
		_ = json.NewEncoder(w).Encode(BookedSlotsResponse{BookedSlots: []string{"09:00", "13:30"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second)
	ctx := httpx.ContextWithRequestID(context.Background(), "req-7")
	got, err := c.BookedSlots(ctx, model.CalendarDate{Year: 2024, Month: time.January, Day: 15}, "America/New_York")
	if err != nil {
		t.Fatalf("BookedSlots: %v", err)
	}
	if len(got) != 2 || got[0] != model.At(9) || got[1] != (model.ClockTime{Hour: 13, Minute: 30}) {
		t.Fatalf("got %v", got)
	}
}

func TestClient_CreateMeeting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/meetings" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "k-1" {
			t.Errorf("idempotency key = %q", got)
		}
		var body CreateMeetingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		want := CreateMeetingRequest{
			Client:          "Ana",
			Content:         "intro call",
			Email:           "ana@example.com",
			ClientsDate:     "2024-01-15T20:00",
			ClientsTimeZone: "America/New_York",
			BGdate:          "2024-01-16",
			BGtime:          "03:00",
		}
		if body != want {
			t.Errorf("body = %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(MeetingResponse{ID: "m-9", Status: "booked", CreatedAt: "2024-01-10T08:00:00Z"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	m, err := c.CreateMeeting(booking.WithIdempotencyKey(context.Background(), "k-1"), sampleRequest())
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	if m.ID != "m-9" || m.BusinessTime != model.At(3) || m.CreatedAt.IsZero() {
		t.Fatalf("meeting = %+v", m)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
		want   error
	}{
		{http.StatusBadRequest, CodePastDatetime, booking.ErrPastOrTooSoon},
		{http.StatusBadRequest, CodeInvalidEmail, booking.ErrInvalidEmail},
		{http.StatusBadRequest, CodeMissingFields, booking.ErrIncompleteInput},
		{http.StatusConflict, CodeSlotTaken, booking.ErrSlotConflict},
		{http.StatusUnprocessableEntity, CodeSlotBlocked, booking.ErrSlotBlocked},
		{http.StatusTooManyRequests, "", booking.ErrRateLimited},
		{http.StatusInternalServerError, "", booking.ErrTransportFailure},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Code: tc.code, Message: "nope"})
		}))
		_, err := NewClient(srv.URL, time.Second).CreateMeeting(context.Background(), sampleRequest())
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%d %s: got %v want %v", tc.status, tc.code, err, tc.want)
		}
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).BookedSlots(context.Background(), model.CalendarDate{Year: 2024, Month: 1, Day: 1}, "UTC")
	if !errors.Is(err, booking.ErrTransportFailure) {
		t.Fatalf("expected ErrTransportFailure, got %v", err)
	}
}

func TestDecodeRequest(t *testing.T) {
	got, err := DecodeRequest(EncodeRequest(sampleRequest()))
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if got != sampleRequest() {
		t.Fatalf("got %+v", got)
	}
	if _, err := DecodeRequest(CreateMeetingRequest{ClientsDate: "15/01/2024 20:00"}); !errors.Is(err, booking.ErrIncompleteInput) {
		t.Fatalf("expected ErrIncompleteInput, got %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	status, code := StatusFor(booking.ErrSlotBlocked)
	if status != http.StatusUnprocessableEntity || code != CodeSlotBlocked {
		t.Fatalf("got %d %s", status, code)
	}
	status, code = StatusFor(errors.New("boom"))
	if status != http.StatusInternalServerError || code != CodeInternal {
		t.Fatalf("got %d %s", status, code)
	}
}

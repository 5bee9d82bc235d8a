package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/meetings"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--rules="}, args...))
	err := root.Execute()
	return out.String(), err
}

func lineFor(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}

func TestConvert(t *testing.T) {
	out, err := run(t, "convert", "--date", "2024-03-05", "--time", "09:00", "--timezone", "America/New_York")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := "2024-03-05 09:00 Europe/Sofia -> 2024-03-05 02:00 America/New_York"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	out, err = run(t, "convert", "--date", "2024-03-05", "--time", "20:00", "--timezone", "America/New_York", "--to-business")
	if err != nil {
		t.Fatalf("convert --to-business: %v", err)
	}
	if !strings.Contains(out, "-> 2024-03-06 03:00 Europe/Sofia") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConvert_UnknownZone(t *testing.T) {
	_, err := run(t, "convert", "--date", "2024-03-05", "--time", "09:00", "--timezone", "Mars/Base")
	if err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}

func TestConvert_FixedZoneAlias(t *testing.T) {
	out, err := run(t, "--fixed-zone", "Office=-05:00", "convert", "--date", "2024-03-05", "--time", "09:00", "--timezone", "Office")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "-> 2024-03-05 02:00 Office") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := run(t, "--fixed-zone", "Office=5", "convert", "--date", "2024-03-05", "--time", "09:00"); err == nil {
		t.Fatalf("expected error for a malformed alias")
	}
}

func TestSlots_DefaultRules(t *testing.T) {
	out, err := run(t, "--now", "2024-03-01T00:00:00Z", "slots", "--date", "2024-03-05", "--timezone", "Europe/Sofia")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if line := lineFor(out, "17:00"); !strings.HasSuffix(strings.TrimSpace(line), "blocked") {
		t.Fatalf("17:00 should be blocked: %q", line)
	}
	if line := lineFor(out, "10:00"); !strings.HasSuffix(strings.TrimSpace(line), "available") {
		t.Fatalf("10:00 on a Tuesday should be available: %q", line)
	}
}

func newMeetingsAPI(t *testing.T, createStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/meetings/booked-slots/{date}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(meetings.BookedSlotsResponse{BookedSlots: []string{"11:00"}})
	})
	mux.HandleFunc("POST /api/v1/meetings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Idempotency-Key") == "" {
			t.Errorf("missing idempotency key")
		}
		var req meetings.CreateMeetingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if createStatus != http.StatusCreated {
			w.WriteHeader(createStatus)
			_ = json.NewEncoder(w).Encode(meetings.ErrorResponse{Code: meetings.CodeSlotTaken, Message: "taken"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(meetings.MeetingResponse{
			ID:              "m-42",
			Client:          req.Client,
			Email:           req.Email,
			ClientsDate:     req.ClientsDate,
			ClientsTimeZone: req.ClientsTimeZone,
			BGdate:          req.BGdate,
			BGtime:          req.BGtime,
			Status:          "booked",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func bookArgs(api string) []string {
	return []string{
		"--now", "2024-03-01T00:00:00Z", "--api", api + "/api/v1",
		"book", "--date", "2024-03-05", "--time", "09:00", "--timezone", "America/New_York",
		"--name", "Ana", "--email", "ana@example.com", "--description", "intro call",
	}
}

func TestBook(t *testing.T) {
	srv := newMeetingsAPI(t, http.StatusCreated)

	out, err := run(t, bookArgs(srv.URL)...)
	if err != nil {
		t.Fatalf("book: %v\n%s", err, out)
	}
	if !strings.Contains(out, "booked m-42") || !strings.Contains(out, "2024-03-05 16:00 Europe/Sofia") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBook_Conflict(t *testing.T) {
	srv := newMeetingsAPI(t, http.StatusConflict)

	out, err := run(t, bookArgs(srv.URL)...)
	if !errors.Is(err, booking.ErrSlotConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(out, "was just taken") || !strings.Contains(out, "still open:") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(lineFor(out, "still open:"), "11:00") {
		t.Fatalf("booked 11:00 must not be offered: %q", out)
	}
}

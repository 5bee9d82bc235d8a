package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/meetings"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/metrics"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

type BookingHandler struct {
	avail    *availability.Service
	store    booking.Store
	builder  *booking.Builder
	zones    zone.Provider
	business model.ZoneID
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewBookingHandler(avail *availability.Service, store booking.Store, builder *booking.Builder, zones zone.Provider, business model.ZoneID, logger *slog.Logger, m *metrics.Metrics) *BookingHandler {
	return &BookingHandler{
		avail:    avail,
		store:    store,
		builder:  builder,
		zones:    zones,
		business: business,
		logger:   logger,
		metrics:  m,
	}
}

type slotItem struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Period string `json:"period"`
	Status string `json:"status"`
}

type slotsResponse struct {
	Date         string     `json:"date"`
	Timezone     string     `json:"timezone"`
	BusinessZone string     `json:"business_timezone"`
	Now          string     `json:"now"`
	Slots        []slotItem `json:"slots"`
}

type bookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Timezone    string `json:"timezone"`
}

// Slots classifies every candidate of one date for the caller's zone.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	date, err := model.ParseDate(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, meetings.CodeMissingFields, "date must be YYYY-MM-DD")
		return
	}
	tz := h.resolveZone(r.URL.Query().Get("timezone"))

	booked, err := h.store.BookedSlots(r.Context(), date, tz)
	if err != nil {
		h.logger.Error("booked slots fetch failed", "err", err, "date", dateStr)
		writeError(w, http.StatusBadGateway, meetings.CodeInternal, "failed to load booked slots")
		return
	}
	day, err := h.avail.Day(date, tz, booked)
	if err != nil {
		h.logger.Error("slot classification failed", "err", err, "date", dateStr)
		writeError(w, http.StatusInternalServerError, meetings.CodeInternal, "failed to classify slots")
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveDay(day)
	}

	resp := slotsResponse{
		Date:         day.Date.String(),
		Timezone:     string(tz),
		BusinessZone: string(h.business),
		Now:          day.Now.Date.String() + "T" + day.Now.Clock.String(),
		Slots:        make([]slotItem, 0, len(day.Slots)),
	}
	for _, s := range day.Slots {
		resp.Slots = append(resp.Slots, slotItem{
			Value:  s.Clock.String(),
			Label:  s.Label,
			Period: s.Period.String(),
			Status: s.Status.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Book creates a meeting from a client-local date and time.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, meetings.CodeMissingFields, "invalid json body")
		return
	}

	in := booking.Input{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Zone:        model.ZoneID(req.Timezone),
	}
	if s := strings.TrimSpace(req.Date); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, meetings.CodeMissingFields, "date must be YYYY-MM-DD")
			return
		}
		in.Date = d
	}
	in.Time = model.ClockTime{Hour: -1}
	if s := strings.TrimSpace(req.Time); s != "" {
		c, err := model.ParseClock(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, meetings.CodeMissingFields, "time must be HH:MM")
			return
		}
		in.Time = c
	}
	h.create(w, r, in)
}

// create validates in, returns the stored meeting for a replayed Idempotency-Key, re-runs the
// availability check for the chosen slot and stores the meeting.
func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request, in booking.Input) {
	ctx := r.Context()
	req, err := h.builder.Build(in)
	if err != nil {
		h.reject(w, err)
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	replayer, canReplay := h.store.(booking.Replayer)
	if key != "" && canReplay {
		meeting, found, err := replayer.Replay(ctx, key)
		if err != nil {
			h.reject(w, err)
			return
		}
		if found {
			h.observe("replayed")
			h.logger.Info("meeting replayed", "meeting_id", meeting.ID)
			writeJSON(w, http.StatusCreated, meetings.EncodeMeeting(meeting))
			return
		}
	}

	// A keyed retry against a store without replay lookup may find its own booking; the
	// store resolves the key and answers the conflict itself.
	if err := h.checkSlot(ctx, req); err != nil {
		if key == "" || canReplay || !errors.Is(err, booking.ErrSlotConflict) {
			h.reject(w, err)
			return
		}
	}

	meeting, err := h.store.CreateMeeting(booking.WithIdempotencyKey(ctx, key), req)
	if err != nil {
		h.reject(w, err)
		return
	}
	h.observe("confirmed")
	h.logger.Info("meeting booked",
		"meeting_id", meeting.ID,
		"business_date", meeting.BusinessDate.String(),
		"business_time", meeting.BusinessTime.String(),
		"client_zone", string(meeting.ClientZone),
	)
	writeJSON(w, http.StatusCreated, meetings.EncodeMeeting(meeting))
}

func (h *BookingHandler) checkSlot(ctx context.Context, req model.BookingRequest) error {
	booked, err := h.store.BookedSlots(ctx, req.ClientDate, req.ClientZone)
	if err != nil {
		return err
	}
	day, err := h.avail.Day(req.ClientDate, req.ClientZone, booked)
	if err != nil {
		return err
	}
	slot, ok := day.Lookup(req.ClientTime)
	if !ok {
		return booking.ErrSlotUnavailable
	}
	return booking.StatusError(slot.Status)
}

func (h *BookingHandler) reject(w http.ResponseWriter, err error) {
	status, code := meetings.StatusFor(err)
	h.observe(strings.ToLower(code))
	if status >= http.StatusInternalServerError {
		h.logger.Error("booking failed", "err", err)
		msg := "failed to create meeting"
		if errors.Is(err, booking.ErrTransportFailure) {
			status = http.StatusBadGateway
			msg = "storage unavailable"
		}
		writeError(w, status, code, msg)
		return
	}
	writeError(w, status, code, err.Error())
}

func (h *BookingHandler) observe(result string) {
	if h.metrics != nil {
		h.metrics.ObserveBooking(result)
	}
}

// resolveZone falls back to the business zone for missing or unknown zones.
func (h *BookingHandler) resolveZone(raw string) model.ZoneID {
	requested := model.ZoneID(strings.TrimSpace(raw))
	tz, ok := zone.Resolve(h.zones, requested, h.business)
	if !ok && requested != "" {
		h.logger.Warn("unknown timezone; using business zone", "timezone", string(requested), "fallback", string(h.business))
	}
	return tz
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, meetings.ErrorResponse{Code: code, Message: msg})
}

// Register mounts the public and meetings API routes on mux.
func (h *BookingHandler) Register(mux *http.ServeMux) {
	routes := []struct {
		pattern string
		route   string
		fn      http.HandlerFunc
	}{
		{"/api/v1/public/slots", "slots", h.Slots},
		{"/api/v1/public/book", "book", h.Book},
		{"GET /api/v1/meetings/booked-slots/{date}", "booked_slots", h.BookedSlots},
		{"POST /api/v1/meetings", "create_meeting", h.CreateMeeting},
	}
	for _, rt := range routes {
		if h.metrics != nil {
			mux.Handle(rt.pattern, h.metrics.Instrument(rt.route, rt.fn))
			continue
		}
		mux.HandleFunc(rt.pattern, rt.fn)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/meetings"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// BookedSlots serves GET /api/v1/meetings/booked-slots/{date}?timezone=.
func (h *BookingHandler) BookedSlots(w http.ResponseWriter, r *http.Request) {
	date, err := model.ParseDate(strings.TrimSpace(r.PathValue("date")))
	if err != nil {
		writeError(w, http.StatusBadRequest, meetings.CodeMissingFields, "date must be YYYY-MM-DD")
		return
	}
	tz := h.resolveZone(r.URL.Query().Get("timezone"))

	clocks, err := h.store.BookedSlots(r.Context(), date, tz)
	if err != nil {
		h.logger.Error("booked slots fetch failed", "err", err, "date", date.String())
		writeError(w, http.StatusBadGateway, meetings.CodeInternal, "failed to load booked slots")
		return
	}
	resp := meetings.BookedSlotsResponse{BookedSlots: make([]string, 0, len(clocks))}
	for _, c := range clocks {
		resp.BookedSlots = append(resp.BookedSlots, c.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateMeeting serves POST /api/v1/meetings with the dual-representation payload. The business
// reading is recomputed from the client fields; a disagreeing BGdate/BGtime is logged and ignored.
func (h *BookingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var body meetings.CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, meetings.CodeMissingFields, "invalid json body")
		return
	}
	req, err := meetings.DecodeRequest(body)
	if err != nil {
		h.reject(w, err)
		return
	}

	in := booking.Input{
		Name:        req.ClientName,
		Description: req.Description,
		Email:       req.Email,
		Date:        req.ClientDate,
		Time:        req.ClientTime,
		Zone:        req.ClientZone,
	}
	if req.ClientDate.IsZero() {
		in.Time = model.ClockTime{Hour: -1}
	}
	if !req.BusinessDate.IsZero() {
		built, err := h.builder.Build(in)
		if err == nil && (built.BusinessDate != req.BusinessDate || built.BusinessTime != req.BusinessTime) {
			h.logger.Warn("business reading mismatch; using computed value",
				"sent_date", req.BusinessDate.String(),
				"sent_time", req.BusinessTime.String(),
				"computed_date", built.BusinessDate.String(),
				"computed_time", built.BusinessTime.String(),
			)
		}
	}
	h.create(w, r, in)
}

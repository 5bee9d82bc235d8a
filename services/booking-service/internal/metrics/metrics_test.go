package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func TestObserve(t *testing.T) {
	m := New("consultbook")
	m.ObserveDay(availability.Day{Slots: []availability.Slot{
		{Status: model.Available},
		{Status: model.Available},
		{Status: model.Blocked},
	}})
	m.ObserveBooking("confirmed")
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)
	m.ObservePublished(3)
	m.SetOutboxBacklog(4)

	if got := testutil.ToFloat64(m.slots.WithLabelValues("available")); got != 2 {
		t.Fatalf("available = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("miss = %v", got)
	}
	if got := testutil.ToFloat64(m.outboxPublished); got != 3 {
		t.Fatalf("published = %v", got)
	}
	if got := testutil.ToFloat64(m.outboxBacklog); got != 4 {
		t.Fatalf("backlog = %v", got)
	}
}

func TestHandlerAndInstrument(t *testing.T) {
	m := New("consultbook")
	h := m.Instrument("slots", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `consultbook_http_request_duration_seconds_count{code="418",route="slots"} 1`) {
		t.Fatalf("latency sample missing:\n%s", body)
	}
}

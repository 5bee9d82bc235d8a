package meetings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/consultbook/libs/httpx"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// Client calls a remote meetings API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) BookedSlots(ctx context.Context, date model.CalendarDate, zone model.ZoneID) ([]model.ClockTime, error) {
	u := c.baseURL + "/meetings/booked-slots/" + url.PathEscape(date.String()) + "?timezone=" + url.QueryEscape(string(zone))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var out BookedSlotsResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	clocks := make([]model.ClockTime, 0, len(out.BookedSlots))
	for _, raw := range out.BookedSlots {
		clock, err := model.ParseClock(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: booked slot %q", booking.ErrTransportFailure, raw)
		}
		clocks = append(clocks, clock)
	}
	return clocks, nil
}

func (c *Client) CreateMeeting(ctx context.Context, br model.BookingRequest) (model.Meeting, error) {
	raw, err := json.Marshal(EncodeRequest(br))
	if err != nil {
		return model.Meeting{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/meetings", bytes.NewReader(raw))
	if err != nil {
		return model.Meeting{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := booking.IdempotencyKey(ctx); key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	var out MeetingResponse
	if err := c.do(req, &out); err != nil {
		return model.Meeting{}, err
	}
	return decodeMeeting(out, br), nil
}

func (c *Client) do(req *http.Request, out any) error {
	if id := httpx.RequestIDFromContext(req.Context()); id != "" {
		req.Header.Set(httpx.RequestIDHeader, id)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", booking.ErrTransportFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e ErrorResponse
		_ = json.Unmarshal(body, &e)
		return ErrorFor(resp.StatusCode, e)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", booking.ErrTransportFailure, err)
	}
	return nil
}

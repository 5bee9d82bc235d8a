package convert

import (
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

func mustDate(t *testing.T, s string) model.CalendarDate {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestToClientLocal_FixedOffsets(t *testing.T) {
	c := New(zone.FixedProvider{"UTC+2": 120, "UTC-5": -300}, "UTC+2")

	d, clock, err := c.ToClientLocal(mustDate(t, "2024-01-15"), model.At(10), "UTC-5")
	if err != nil {
		t.Fatalf("ToClientLocal: %v", err)
	}
	if d.String() != "2024-01-15" || clock != model.At(3) {
		t.Fatalf("got %s %s, want 2024-01-15 03:00", d, clock)
	}
}

func TestConvert_DateRollover(t *testing.T) {
	c := New(zone.NewIANAProvider(), "Europe/Sofia")

	// Business 01:00 is the previous evening in New York.
	d, clock, err := c.ToClientLocal(mustDate(t, "2024-01-15"), model.At(1), "America/New_York")
	if err != nil {
		t.Fatalf("ToClientLocal: %v", err)
	}
	if d.String() != "2024-01-14" || clock != model.At(18) {
		t.Fatalf("got %s %s, want 2024-01-14 18:00", d, clock)
	}

	// Business 23:00 lands on the next day in Tokyo.
	d, clock, err = c.ToClientLocal(mustDate(t, "2024-12-31"), model.At(23), "Asia/Tokyo")
	if err != nil {
		t.Fatalf("ToClientLocal: %v", err)
	}
	if d.String() != "2025-01-01" || clock != model.At(6) {
		t.Fatalf("got %s %s, want 2025-01-01 06:00", d, clock)
	}
}

func TestConvert_IndependentDST(t *testing.T) {
	c := New(zone.NewIANAProvider(), "Europe/Sofia")

	cases := []struct {
		date string
		want model.ClockTime
	}{
		// Both in standard time: 7 hours apart.
		{"2024-01-15", model.At(3)},
		// New York already on DST, Sofia not yet: 6 hours apart.
		{"2024-03-20", model.At(4)},
		// Both on DST: 7 hours apart.
		{"2024-07-01", model.At(3)},
		// Sofia back on standard time, New York still on DST: 6 hours apart.
		{"2024-10-30", model.At(4)},
	}
	for _, tc := range cases {
		_, clock, err := c.ToClientLocal(mustDate(t, tc.date), model.At(10), "America/New_York")
		if err != nil {
			t.Fatalf("%s: %v", tc.date, err)
		}
		if clock != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.date, clock, tc.want)
		}
	}
}

func TestConvert_HalfHourZone(t *testing.T) {
	c := New(zone.NewIANAProvider(), "Europe/Sofia")
	_, clock, err := c.ToClientLocal(mustDate(t, "2024-01-15"), model.At(10), "Asia/Kolkata")
	if err != nil {
		t.Fatalf("ToClientLocal: %v", err)
	}
	if clock != (model.ClockTime{Hour: 13, Minute: 30}) {
		t.Fatalf("got %s, want 13:30", clock)
	}
}

func TestRoundTrip(t *testing.T) {
	c := New(zone.NewIANAProvider(), "Europe/Sofia")
	zones := []model.ZoneID{"America/Los_Angeles", "America/New_York", "UTC", "Asia/Kolkata", "Pacific/Auckland", "Asia/Tokyo"}
	dates := []string{"2024-01-15", "2024-04-15", "2024-07-15", "2024-11-15"}

	for _, z := range zones {
		for _, ds := range dates {
			for h := 0; h < 24; h++ {
				date := mustDate(t, ds)
				clock := model.At(h)
				bd, bt, err := c.ToBusinessLocal(date, clock, z)
				if err != nil {
					t.Fatalf("ToBusinessLocal: %v", err)
				}
				cd, ct, err := c.ToClientLocal(bd, bt, z)
				if err != nil {
					t.Fatalf("ToClientLocal: %v", err)
				}
				if cd != date || ct != clock {
					t.Fatalf("%s %s %s: round trip gave %s %s", z, ds, clock, cd, ct)
				}
			}
		}
	}
}

func TestConvert_UnknownZone(t *testing.T) {
	c := New(zone.NewIANAProvider(), "Europe/Sofia")
	_, _, err := c.ToClientLocal(mustDate(t, "2024-01-15"), model.At(10), "Atlantis/Capital")
	if !errors.Is(err, zone.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestLocal(t *testing.T) {
	c := New(zone.NewIANAProvider(), "Europe/Sofia")
	li, err := c.Local(time.Date(2024, 7, 1, 21, 30, 45, 0, time.UTC), "Europe/Sofia")
	if err != nil {
		t.Fatalf("Local: %v", err)
	}
	if li.Date.String() != "2024-07-02" || li.Clock != (model.ClockTime{Hour: 0, Minute: 30}) {
		t.Fatalf("got %s", li)
	}
}

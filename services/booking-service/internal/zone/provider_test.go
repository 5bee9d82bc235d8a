package zone

import (
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func TestIANAProvider_OffsetFollowsInstant(t *testing.T) {
	p := NewIANAProvider()

	cases := []struct {
		zone    model.ZoneID
		instant time.Time
		want    int
	}{
		// Sofia: EET in winter, EEST in summer.
		{"Europe/Sofia", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 120},
		{"Europe/Sofia", time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), 180},
		// New York switches on a different date than Europe.
		{"America/New_York", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), -240},
		{"America/New_York", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), -300},
		{"Etc/GMT-2", time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), 120},
		{"UTC", time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		got, err := p.OffsetMinutes(tc.zone, tc.instant)
		if err != nil {
			t.Fatalf("OffsetMinutes(%s): %v", tc.zone, err)
		}
		if got != tc.want {
			t.Fatalf("OffsetMinutes(%s, %s) = %d, want %d", tc.zone, tc.instant, got, tc.want)
		}
	}
}

func TestIANAProvider_Weekday(t *testing.T) {
	p := NewIANAProvider()
	// 2024-01-15 01:00 UTC is Monday in Sofia and still Sunday in Los Angeles.
	instant := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)
	wd, err := p.Weekday("Europe/Sofia", instant)
	if err != nil || wd != time.Monday {
		t.Fatalf("Sofia weekday = %s (%v)", wd, err)
	}
	wd, err = p.Weekday("America/Los_Angeles", instant)
	if err != nil || wd != time.Sunday {
		t.Fatalf("Los Angeles weekday = %s (%v)", wd, err)
	}
}

func TestIANAProvider_UnknownZone(t *testing.T) {
	p := NewIANAProvider()
	for _, z := range []model.ZoneID{"", "Local", "Mars/Olympus_Mons"} {
		if _, err := p.OffsetMinutes(z, time.Now()); !errors.Is(err, ErrUnknownZone) {
			t.Fatalf("expected ErrUnknownZone for %q, got %v", z, err)
		}
	}
}

func TestFixedProviderAndChain(t *testing.T) {
	fixed := FixedProvider{"UTC+2": 120, "UTC-5": -300}
	chain := Chain{fixed, NewIANAProvider()}

	instant := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)
	wd, err := chain.Weekday("UTC-5", instant)
	if err != nil || wd != time.Sunday {
		t.Fatalf("UTC-5 weekday = %s (%v)", wd, err)
	}
	off, err := chain.OffsetMinutes("Europe/Sofia", instant)
	if err != nil || off != 120 {
		t.Fatalf("chain fallthrough offset = %d (%v)", off, err)
	}
	if _, err := chain.OffsetMinutes("UTC+99", instant); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	p := NewIANAProvider()
	if z, ok := Resolve(p, "America/Chicago", "Europe/Sofia"); !ok || z != "America/Chicago" {
		t.Fatalf("Resolve known = %s %v", z, ok)
	}
	if z, ok := Resolve(p, "Nowhere/Town", "Europe/Sofia"); ok || z != "Europe/Sofia" {
		t.Fatalf("Resolve unknown = %s %v", z, ok)
	}
}

func TestParseFixedAndWithAliases(t *testing.T) {
	aliases, err := ParseFixed([]string{"Office=+02:00", " Field = -05:30 "})
	if err != nil {
		t.Fatalf("ParseFixed: %v", err)
	}
	if aliases["Office"] != 120 || aliases["Field"] != -330 {
		t.Fatalf("aliases = %v", aliases)
	}
	for _, bad := range []string{"Office", "Office=2", "Office=+2:00", "=+02:00", "Office=+25:00"} {
		if _, err := ParseFixed([]string{bad}); err == nil {
			t.Fatalf("ParseFixed(%q) accepted", bad)
		}
	}

	p := WithAliases(aliases)
	instant := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	if off, err := p.OffsetMinutes("Office", instant); err != nil || off != 120 {
		t.Fatalf("alias offset = %d (%v)", off, err)
	}
	if off, err := p.OffsetMinutes("Europe/Sofia", instant); err != nil || off != 180 {
		t.Fatalf("iana offset = %d (%v)", off, err)
	}
	if _, ok := WithAliases(nil).(*IANAProvider); !ok {
		t.Fatalf("no aliases should give the bare IANA provider")
	}
}

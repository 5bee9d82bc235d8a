// Package zone answers "what UTC offset and weekday does this zone observe at this instant".
// Lookups always use the rules in effect at the queried instant, never the host's current offset.
package zone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	// Embedded tz database so lookups do not depend on the host's zoneinfo.
	_ "time/tzdata"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

var ErrUnknownZone = errors.New("unknown zone")

type Provider interface {
	OffsetMinutes(zone model.ZoneID, instant time.Time) (int, error)
	Weekday(zone model.ZoneID, instant time.Time) (time.Weekday, error)
}

// IANAProvider resolves zones through the tz database available to the process
// (system zoneinfo or the embedded time/tzdata).
type IANAProvider struct {
	mu    sync.RWMutex
	cache map[model.ZoneID]*time.Location
}

func NewIANAProvider() *IANAProvider {
	return &IANAProvider{cache: map[model.ZoneID]*time.Location{}}
}

func (p *IANAProvider) OffsetMinutes(zone model.ZoneID, instant time.Time) (int, error) {
	loc, err := p.location(zone)
	if err != nil {
		return 0, err
	}
	_, secs := instant.In(loc).Zone()
	return secs / 60, nil
}

func (p *IANAProvider) Weekday(zone model.ZoneID, instant time.Time) (time.Weekday, error) {
	loc, err := p.location(zone)
	if err != nil {
		return 0, err
	}
	return instant.In(loc).Weekday(), nil
}

func (p *IANAProvider) location(zone model.ZoneID) (*time.Location, error) {
	name := strings.TrimSpace(string(zone))
	// "" and "Local" would silently resolve to UTC or the host zone.
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}

	p.mu.RLock()
	loc, ok := p.cache[model.ZoneID(name)]
	p.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	p.mu.Lock()
	p.cache[model.ZoneID(name)] = loc
	p.mu.Unlock()
	return loc, nil
}

// FixedProvider serves zones with a constant offset, e.g. {"UTC+2": 120}.
type FixedProvider map[model.ZoneID]int

func (p FixedProvider) OffsetMinutes(zone model.ZoneID, _ time.Time) (int, error) {
	off, ok := p[zone]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}
	return off, nil
}

func (p FixedProvider) Weekday(zone model.ZoneID, instant time.Time) (time.Weekday, error) {
	off, err := p.OffsetMinutes(zone, instant)
	if err != nil {
		return 0, err
	}
	return instant.UTC().Add(time.Duration(off) * time.Minute).Weekday(), nil
}

// Chain consults providers in order, moving on only when a provider does not know the zone.
type Chain []Provider

func (c Chain) OffsetMinutes(zone model.ZoneID, instant time.Time) (int, error) {
	for _, p := range c {
		off, err := p.OffsetMinutes(zone, instant)
		if errors.Is(err, ErrUnknownZone) {
			continue
		}
		return off, err
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
}

func (c Chain) Weekday(zone model.ZoneID, instant time.Time) (time.Weekday, error) {
	for _, p := range c {
		wd, err := p.Weekday(zone, instant)
		if errors.Is(err, ErrUnknownZone) {
			continue
		}
		return wd, err
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
}

// ParseFixed reads "NAME=+HH:MM" entries, e.g. "Office=+02:00".
func ParseFixed(entries []string) (FixedProvider, error) {
	out := FixedProvider{}
	for _, e := range entries {
		name, raw, ok := strings.Cut(e, "=")
		name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)
		if !ok || name == "" || len(raw) != 6 || (raw[0] != '+' && raw[0] != '-') || raw[3] != ':' {
			return nil, fmt.Errorf("fixed zone %q: want NAME=+HH:MM", e)
		}
		h, herr := strconv.Atoi(raw[1:3])
		m, merr := strconv.Atoi(raw[4:6])
		if herr != nil || merr != nil || h < 0 || h > 14 || m < 0 || m > 59 {
			return nil, fmt.Errorf("fixed zone %q: bad offset", e)
		}
		off := h*60 + m
		if raw[0] == '-' {
			off = -off
		}
		out[model.ZoneID(name)] = off
	}
	return out, nil
}

// WithAliases serves IANA zones and, after them, the given fixed-offset aliases.
func WithAliases(aliases FixedProvider) Provider {
	iana := NewIANAProvider()
	if len(aliases) == 0 {
		return iana
	}
	return Chain{iana, aliases}
}

// Resolve returns zone when p recognizes it and fallback otherwise. The boolean reports whether
// the requested zone was used.
func Resolve(p Provider, zone, fallback model.ZoneID) (model.ZoneID, bool) {
	if _, err := p.OffsetMinutes(zone, time.Unix(0, 0)); err != nil {
		return fallback, false
	}
	return zone, true
}

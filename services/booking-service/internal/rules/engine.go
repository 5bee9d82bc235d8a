// Package rules expands recurring business blackout rules into blocked hours for one date.
package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

type Engine struct {
	zones    zone.Provider
	business model.ZoneID
	weekly   []BlackoutRule
	daily    []int
}

func NewEngine(cfg Config, zones zone.Provider) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{zones: zones, business: cfg.Zone(), daily: append([]int(nil), cfg.Daily...)}
	for _, w := range cfg.Weekly {
		rule, err := compileWeekly(w)
		if err != nil {
			return nil, err
		}
		e.weekly = append(e.weekly, rule)
	}
	return e, nil
}

func (e *Engine) BusinessZone() model.ZoneID { return e.business }

// Expand returns the blocked business-local hours for a business-local date, ascending and
// without duplicates. Weekly rules match against the weekday observed in the business zone.
func (e *Engine) Expand(date model.CalendarDate) ([]model.ClockTime, error) {
	weekday, err := e.weekday(date)
	if err != nil {
		return nil, err
	}

	hours := map[int]struct{}{}
	for _, r := range e.weekly {
		if !r.matches(date, weekday) {
			continue
		}
		for h := r.StartHour; h <= r.EndHour; h++ {
			hours[h] = struct{}{}
		}
	}
	for _, h := range e.daily {
		hours[h] = struct{}{}
	}

	out := make([]model.ClockTime, 0, len(hours))
	for h := range hours {
		out = append(out, model.At(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// weekday resolves business-local noon of date to an instant and asks the zone which weekday it
// observes there. Noon keeps the lookup clear of midnight transitions.
func (e *Engine) weekday(date model.CalendarDate) (time.Weekday, error) {
	provisional := model.LocalInstant{Date: date, Clock: model.At(12)}.Naive()
	off, err := e.zones.OffsetMinutes(e.business, provisional)
	if err != nil {
		return 0, fmt.Errorf("business zone %s: %w", e.business, err)
	}
	instant := provisional.Add(-time.Duration(off) * time.Minute)
	return e.zones.Weekday(e.business, instant)
}

func (r BlackoutRule) matches(date model.CalendarDate, weekday time.Weekday) bool {
	if r.recurrence == nil {
		return r.Weekday == weekday
	}
	start := model.LocalInstant{Date: date}.Naive()
	return len(r.recurrence.Between(start, start.Add(24*time.Hour-time.Second), true)) > 0
}

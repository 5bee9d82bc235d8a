// Package slots builds the hourly candidate grid for the opening window.
package slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

var ErrInvalidWindow = errors.New("invalid opening window")

// Generate returns one candidate per whole hour in [openHour, closeHour], ascending. Labels use
// the clock convention of displayZone.
func Generate(openHour, closeHour int, displayZone model.ZoneID) ([]model.SlotCandidate, error) {
	if openHour < 0 || closeHour > 23 || openHour > closeHour {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidWindow, openHour, closeHour)
	}
	twelveHour := Uses12HourClock(displayZone)

	out := make([]model.SlotCandidate, 0, closeHour-openHour+1)
	for h := openHour; h <= closeHour; h++ {
		clock := model.At(h)
		out = append(out, model.SlotCandidate{
			Clock:  clock,
			Label:  Label(clock, twelveHour),
			Period: PeriodOf(h),
		})
	}
	return out, nil
}

// PeriodOf classifies an hour: morning before 12, afternoon [12,18), evening from 18.
func PeriodOf(hour int) model.Period {
	switch {
	case hour < 12:
		return model.Morning
	case hour < 18:
		return model.Afternoon
	default:
		return model.Evening
	}
}

func Label(clock model.ClockTime, twelveHour bool) string {
	t := time.Date(2000, time.January, 1, clock.Hour, clock.Minute, 0, 0, time.UTC)
	if twelveHour {
		return t.Format("3:04 PM")
	}
	return t.Format("15:04")
}

package availability

import (
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// Slot is a candidate with its status for one date in one display zone.
type Slot struct {
	model.SlotCandidate
	Status model.SlotStatus
}

// Input is everything needed to classify one display date. Candidates, Blocked, Booked and Now
// are all read in the same display zone.
type Input struct {
	Date          model.CalendarDate
	Candidates    []model.SlotCandidate
	Blocked       []model.LocalInstant
	Booked        []model.ClockTime
	Now           model.LocalInstant
	LeadTimeHours int
}

// Classify assigns exactly one status per candidate. Precedence: booked, blocked, past
// (same-day lead time, or any date before today), available.
func Classify(in Input) []Slot {
	booked := make(map[model.ClockTime]struct{}, len(in.Booked))
	for _, c := range in.Booked {
		booked[c] = struct{}{}
	}
	blocked := make(map[model.ClockTime]struct{}, len(in.Blocked))
	for _, b := range in.Blocked {
		if b.Date == in.Date {
			blocked[b.Clock] = struct{}{}
		}
	}

	out := make([]Slot, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		out = append(out, Slot{SlotCandidate: c, Status: classifyOne(in, c.Clock, booked, blocked)})
	}
	return out
}

func classifyOne(in Input, clock model.ClockTime, booked, blocked map[model.ClockTime]struct{}) model.SlotStatus {
	if _, ok := booked[clock]; ok {
		return model.Booked
	}
	if _, ok := blocked[clock]; ok {
		return model.Blocked
	}
	if TooSoon(in.Date, clock, in.Now, in.LeadTimeHours) {
		return model.Past
	}
	return model.Available
}

// TooSoon reports whether a slot on date fails the lead time rule at now. Only today's slots are
// subject to the lead time; later dates never are.
func TooSoon(date model.CalendarDate, clock model.ClockTime, now model.LocalInstant, leadHours int) bool {
	if date.Before(now.Date) {
		return true
	}
	return date == now.Date && clock.Hour <= now.Clock.Hour+leadHours
}

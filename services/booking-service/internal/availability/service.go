// Package availability classifies the hourly slot grid of one date for one display zone.
package availability

import (
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/convert"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/slots"
)

type Options struct {
	OpenHour      int
	CloseHour     int
	LeadTimeHours int
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	conv  *convert.Converter
	rules Expander
	opts  Options
}

func NewService(conv *convert.Converter, rules Expander, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{conv: conv, rules: rules, opts: opts}
}

// Day is the classified grid for one display date.
type Day struct {
	Date  model.CalendarDate
	Zone  model.ZoneID
	Now   model.LocalInstant
	Slots []Slot
}

func (d Day) Lookup(clock model.ClockTime) (Slot, bool) {
	for _, s := range d.Slots {
		if s.Clock == clock {
			return s, true
		}
	}
	return Slot{}, false
}

// Now reads the current instant in zone.
func (s *Service) Now(zone model.ZoneID) (model.LocalInstant, error) {
	return s.conv.Local(s.opts.Now(), zone)
}

func (s *Service) LeadTimeHours() int { return s.opts.LeadTimeHours }

// Day classifies date in displayZone. booked is the collaborator's booked set for that
// (date, zone) pair, already in displayZone.
func (s *Service) Day(date model.CalendarDate, displayZone model.ZoneID, booked []model.ClockTime) (Day, error) {
	candidates, err := slots.Generate(s.opts.OpenHour, s.opts.CloseHour, displayZone)
	if err != nil {
		return Day{}, err
	}
	blocked, err := ProjectBlackouts(s.rules, s.conv, date, displayZone)
	if err != nil {
		return Day{}, err
	}
	now, err := s.Now(displayZone)
	if err != nil {
		return Day{}, err
	}
	return Day{
		Date: date,
		Zone: displayZone,
		Now:  now,
		Slots: Classify(Input{
			Date:          date,
			Candidates:    candidates,
			Blocked:       blocked,
			Booked:        booked,
			Now:           now,
			LeadTimeHours: s.opts.LeadTimeHours,
		}),
	}, nil
}

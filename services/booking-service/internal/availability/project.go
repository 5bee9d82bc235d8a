package availability

import (
	"fmt"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// Expander yields blocked business-local hours for a business-local date.
type Expander interface {
	Expand(date model.CalendarDate) ([]model.ClockTime, error)
}

// Converter reads business-local readings in a client zone.
type Converter interface {
	ToClientLocal(date model.CalendarDate, clock model.ClockTime, clientZone model.ZoneID) (model.CalendarDate, model.ClockTime, error)
}

// ProjectBlackouts returns the blocked readings that fall on displayDate in displayZone. A display
// date overlaps at most the business dates either side of it, so those three are expanded.
func ProjectBlackouts(rules Expander, conv Converter, displayDate model.CalendarDate, displayZone model.ZoneID) ([]model.LocalInstant, error) {
	var out []model.LocalInstant
	for delta := -1; delta <= 1; delta++ {
		businessDate := displayDate.AddDays(delta)
		hours, err := rules.Expand(businessDate)
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", businessDate, err)
		}
		for _, h := range hours {
			d, c, err := conv.ToClientLocal(businessDate, h, displayZone)
			if err != nil {
				return nil, err
			}
			if d == displayDate {
				out = append(out, model.LocalInstant{Date: d, Clock: c, Zone: displayZone})
			}
		}
	}
	return out, nil
}

// Package convert moves wall clock readings between the business zone and a client zone.
package convert

import (
	"fmt"
	"time"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

type Converter struct {
	zones    zone.Provider
	business model.ZoneID
}

func New(zones zone.Provider, business model.ZoneID) *Converter {
	return &Converter{zones: zones, business: business}
}

func (c *Converter) Business() model.ZoneID { return c.business }

func (c *Converter) Zones() zone.Provider { return c.zones }

// ToClientLocal reads a business-local date and time in clientZone.
func (c *Converter) ToClientLocal(date model.CalendarDate, clock model.ClockTime, clientZone model.ZoneID) (model.CalendarDate, model.ClockTime, error) {
	out, err := c.Convert(model.LocalInstant{Date: date, Clock: clock, Zone: c.business}, clientZone)
	if err != nil {
		return model.CalendarDate{}, model.ClockTime{}, err
	}
	return out.Date, out.Clock, nil
}

// ToBusinessLocal reads a client-local date and time in the business zone.
func (c *Converter) ToBusinessLocal(date model.CalendarDate, clock model.ClockTime, clientZone model.ZoneID) (model.CalendarDate, model.ClockTime, error) {
	out, err := c.Convert(model.LocalInstant{Date: date, Clock: clock, Zone: clientZone}, c.business)
	if err != nil {
		return model.CalendarDate{}, model.ClockTime{}, err
	}
	return out.Date, out.Clock, nil
}

// Convert re-reads in as a wall clock in the destination zone. The result may fall on an
// adjacent calendar date.
func (c *Converter) Convert(in model.LocalInstant, to model.ZoneID) (model.LocalInstant, error) {
	instant, err := c.Instant(in)
	if err != nil {
		return model.LocalInstant{}, err
	}
	return c.Local(instant, to)
}

// Instant resolves a wall clock reading into a universal instant. The source offset is taken
// at the provisional instant obtained by reading the wall clock as UTC.
func (c *Converter) Instant(in model.LocalInstant) (time.Time, error) {
	provisional := in.Naive()
	off, err := c.zones.OffsetMinutes(in.Zone, provisional)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve %s: %w", in.Zone, err)
	}
	return provisional.Add(-time.Duration(off) * time.Minute), nil
}

// Local reads a universal instant as a wall clock in zone, to the minute.
func (c *Converter) Local(instant time.Time, z model.ZoneID) (model.LocalInstant, error) {
	off, err := c.zones.OffsetMinutes(z, instant)
	if err != nil {
		return model.LocalInstant{}, fmt.Errorf("resolve %s: %w", z, err)
	}
	return model.FromNaive(instant.UTC().Add(time.Duration(off)*time.Minute), z), nil
}

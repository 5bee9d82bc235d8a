// Package booking turns a chosen slot into a storage payload and drives the booking flow.
package booking

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// BusinessConverter reads a client-local reading in the business zone.
type BusinessConverter interface {
	ToBusinessLocal(date model.CalendarDate, clock model.ClockTime, clientZone model.ZoneID) (model.CalendarDate, model.ClockTime, error)
}

// Input is what the client filled in.
type Input struct {
	Name        string
	Description string
	Email       string
	Date        model.CalendarDate
	Time        model.ClockTime
	Zone        model.ZoneID
}

type Builder struct {
	conv BusinessConverter
}

func NewBuilder(conv BusinessConverter) *Builder {
	return &Builder{conv: conv}
}

// Build validates in and computes the business-local reading of the chosen slot. It does not
// evaluate business rules.
func (b *Builder) Build(in Input) (model.BookingRequest, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	email := strings.TrimSpace(in.Email)
	zone := model.ZoneID(strings.TrimSpace(string(in.Zone)))

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Date.IsZero() {
		missing = append(missing, "date")
	}
	if !in.Time.Valid() {
		missing = append(missing, "time")
	}
	if zone == "" {
		missing = append(missing, "timezone")
	}
	if len(missing) > 0 {
		return model.BookingRequest{}, fmt.Errorf("%w: %s", ErrIncompleteInput, strings.Join(missing, ", "))
	}
	if !validEmail(email) {
		return model.BookingRequest{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	businessDate, businessTime, err := b.conv.ToBusinessLocal(in.Date, in.Time, zone)
	if err != nil {
		return model.BookingRequest{}, err
	}
	return model.BookingRequest{
		ClientName:   name,
		Description:  description,
		Email:        email,
		ClientDate:   in.Date,
		ClientTime:   in.Time,
		ClientZone:   zone,
		BusinessDate: businessDate,
		BusinessTime: businessTime,
	}, nil
}

// validEmail accepts a bare addr-spec with a dotted domain.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

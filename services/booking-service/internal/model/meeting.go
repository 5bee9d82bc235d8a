package model

import "time"

// BookingRequest is the dual representation of a chosen slot handed to storage: the client's
// wall clock reading and the same instant read in the business zone.
type BookingRequest struct {
	ClientName   string
	Description  string
	Email        string
	ClientDate   CalendarDate
	ClientTime   ClockTime
	ClientZone   ZoneID
	BusinessDate CalendarDate
	BusinessTime ClockTime
}

// Meeting is a stored booking.
type Meeting struct {
	ID string
	BookingRequest
	Status    string
	CreatedAt time.Time
}

const MeetingStatusBooked = "booked"

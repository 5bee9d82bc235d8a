package model

import "fmt"

type Period int

const (
	Morning Period = iota
	Afternoon
	Evening
)

func (p Period) String() string {
	switch p {
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	default:
		return fmt.Sprintf("period(%d)", int(p))
	}
}

func (p Period) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// SlotCandidate is one bookable whole hour in the opening window, labeled for display.
type SlotCandidate struct {
	Clock  ClockTime
	Label  string
	Period Period
}

type SlotStatus int

const (
	Available SlotStatus = iota
	Booked
	Blocked
	Past
)

func (s SlotStatus) String() string {
	switch s {
	case Available:
		return "available"
	case Booked:
		return "booked"
	case Blocked:
		return "blocked"
	case Past:
		return "past"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s SlotStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s SlotStatus) Selectable() bool { return s == Available }

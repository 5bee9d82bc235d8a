package booking

import (
	"errors"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

var (
	ErrIncompleteInput   = errors.New("missing required fields")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrPastOrTooSoon     = errors.New("slot is in the past or inside the lead time")
	ErrSlotBlocked       = errors.New("slot is outside business availability")
	ErrSlotConflict      = errors.New("slot already booked")
	ErrSlotUnavailable   = errors.New("slot is not available")
	ErrRateLimited       = errors.New("too many requests")
	ErrTransportFailure  = errors.New("booking service unreachable")
	ErrStaleResult       = errors.New("result superseded by a newer date selection")
	ErrInvalidTransition = errors.New("invalid booking flow transition")
)

// StatusError is the rejection for booking a slot with status s, or nil when s is selectable.
func StatusError(s model.SlotStatus) error {
	switch s {
	case model.Available:
		return nil
	case model.Booked:
		return ErrSlotConflict
	case model.Blocked:
		return ErrSlotBlocked
	case model.Past:
		return ErrPastOrTooSoon
	default:
		return ErrSlotUnavailable
	}
}

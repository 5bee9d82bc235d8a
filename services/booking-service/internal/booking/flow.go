package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

type State int

const (
	Idle State = iota
	SlotsLoading
	SlotsReady
	Submitting
	Confirmed
	Rejected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SlotsLoading:
		return "slots_loading"
	case SlotsReady:
		return "slots_ready"
	case Submitting:
		return "submitting"
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	Idle:         {SlotsLoading},
	SlotsLoading: {SlotsLoading, SlotsReady, Idle},
	SlotsReady:   {SlotsLoading, Submitting},
	Submitting:   {Confirmed, Rejected},
	Rejected:     {SlotsReady, SlotsLoading},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Store is the external storage collaborator.
type Store interface {
	BookedSlots(ctx context.Context, date model.CalendarDate, zone model.ZoneID) ([]model.ClockTime, error)
	CreateMeeting(ctx context.Context, req model.BookingRequest) (model.Meeting, error)
}

// Replayer is implemented by stores that can look up a meeting by idempotency key.
type Replayer interface {
	Replay(ctx context.Context, key string) (model.Meeting, bool, error)
}

// Grid classifies a date once its booked set is known.
type Grid interface {
	Day(date model.CalendarDate, displayZone model.ZoneID, booked []model.ClockTime) (availability.Day, error)
	Now(zone model.ZoneID) (model.LocalInstant, error)
	LeadTimeHours() int
}

// Contact is the client's part of a booking.
type Contact struct {
	Name        string
	Description string
	Email       string
}

// Flow is one client's booking session in one display zone. The displayed day is replaced
// wholesale on every load; a load started before the latest date selection is discarded.
type Flow struct {
	grid    Grid
	store   Store
	builder *Builder
	zone    model.ZoneID

	mu       sync.Mutex
	state    State
	gen      uint64
	day      availability.Day
	selected *model.ClockTime
	key      string
	meeting  model.Meeting
}

func NewFlow(grid Grid, store Store, builder *Builder, displayZone model.ZoneID) *Flow {
	return &Flow{grid: grid, store: store, builder: builder, zone: displayZone}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Zone() model.ZoneID { return f.zone }

// Day returns the currently displayed availability.
func (f *Flow) Day() availability.Day {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.day
}

// Meeting returns the stored booking once the flow is Confirmed.
func (f *Flow) Meeting() (model.Meeting, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meeting, f.state == Confirmed
}

func (f *Flow) moveLocked(to State) error {
	if !canTransition(f.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, to)
	}
	f.state = to
	return nil
}

// SelectDate loads availability for date. If another SelectDate starts before this one
// finishes, this call returns ErrStaleResult and its result is dropped.
func (f *Flow) SelectDate(ctx context.Context, date model.CalendarDate) (availability.Day, error) {
	f.mu.Lock()
	if err := f.moveLocked(SlotsLoading); err != nil {
		f.mu.Unlock()
		return availability.Day{}, err
	}
	f.gen++
	gen := f.gen
	f.selected = nil
	f.key = ""
	f.mu.Unlock()

	booked, err := f.store.BookedSlots(ctx, date, f.zone)
	var day availability.Day
	if err == nil {
		day, err = f.grid.Day(date, f.zone, booked)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return availability.Day{}, ErrStaleResult
	}
	if err != nil {
		f.state = Idle
		f.day = availability.Day{}
		return availability.Day{}, err
	}
	f.day = day
	f.state = SlotsReady
	return day, nil
}

// Refresh reloads the currently displayed date.
func (f *Flow) Refresh(ctx context.Context) (availability.Day, error) {
	f.mu.Lock()
	date := f.day.Date
	f.mu.Unlock()
	if date.IsZero() {
		return availability.Day{}, fmt.Errorf("%w: no date selected", ErrInvalidTransition)
	}
	return f.SelectDate(ctx, date)
}

// SelectTime picks a slot of the displayed day. Only Available slots can be picked.
func (f *Flow) SelectTime(clock model.ClockTime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readyLocked(); err != nil {
		return err
	}
	slot, ok := f.day.Lookup(clock)
	if !ok {
		return fmt.Errorf("%w: %s is not offered", ErrSlotUnavailable, clock)
	}
	if !slot.Status.Selectable() {
		return fmt.Errorf("%w: %s is %s", ErrSlotUnavailable, clock, slot.Status)
	}
	f.selected = &clock
	f.key = uuid.NewString()
	return nil
}

// readyLocked returns a Rejected flow to SlotsReady.
func (f *Flow) readyLocked() error {
	if f.state == Rejected {
		return f.moveLocked(SlotsReady)
	}
	if f.state != SlotsReady {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, f.state)
	}
	return nil
}

// Submit books the selected slot. Input errors leave the flow in SlotsReady; collaborator
// rejections move it to Rejected, from which the client may resubmit. There is no retry.
func (f *Flow) Submit(ctx context.Context, c Contact) (model.Meeting, error) {
	f.mu.Lock()
	if err := f.readyLocked(); err != nil {
		f.mu.Unlock()
		return model.Meeting{}, err
	}
	if f.selected == nil {
		f.mu.Unlock()
		return model.Meeting{}, fmt.Errorf("%w: no time selected", ErrIncompleteInput)
	}
	date, clock, key := f.day.Date, *f.selected, f.key

	req, err := f.builder.Build(Input{
		Name:        c.Name,
		Description: c.Description,
		Email:       c.Email,
		Date:        date,
		Time:        clock,
		Zone:        f.zone,
	})
	if err != nil {
		f.mu.Unlock()
		return model.Meeting{}, err
	}

	now, err := f.grid.Now(f.zone)
	if err != nil {
		f.mu.Unlock()
		return model.Meeting{}, err
	}
	if err := f.moveLocked(Submitting); err != nil {
		f.mu.Unlock()
		return model.Meeting{}, err
	}
	if availability.TooSoon(date, clock, now, f.grid.LeadTimeHours()) {
		f.state = Rejected
		f.mu.Unlock()
		return model.Meeting{}, fmt.Errorf("%w: %s %s", ErrPastOrTooSoon, date, clock)
	}
	f.mu.Unlock()

	meeting, err := f.store.CreateMeeting(WithIdempotencyKey(ctx, key), req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Rejected
		if errors.Is(err, ErrSlotConflict) {
			f.selected = nil
		}
		return model.Meeting{}, err
	}
	f.state = Confirmed
	f.meeting = meeting
	return meeting, nil
}

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/convert"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/outbox"
)

// DayCache holds booked business-local times per business date.
type DayCache interface {
	Get(ctx context.Context, businessDate model.CalendarDate) ([]model.ClockTime, bool, error)
	Set(ctx context.Context, businessDate model.CalendarDate, clocks []model.ClockTime) error
	Invalidate(ctx context.Context, businessDates ...model.CalendarDate) error
}

type dayLoader interface {
	BusinessDay(ctx context.Context, businessDate model.CalendarDate) ([]model.ClockTime, error)
}

type keyLookup interface {
	ByIdempotencyKey(ctx context.Context, key string) (model.Meeting, bool, error)
}

// CacheObserver is told about every cache lookup.
type CacheObserver func(hit bool)

// MeetingStore is the Postgres-backed collaborator: it answers booked-slot queries in any zone
// and stores meetings together with their outbox event.
type MeetingStore struct {
	repo    *MeetingRepository
	loader  dayLoader
	keys    keyLookup
	outbox  *outbox.Repository
	conv    *convert.Converter
	cache   DayCache
	logger  *slog.Logger
	observe CacheObserver
	now     func() time.Time
}

var _ booking.Replayer = (*MeetingStore)(nil)

// NewMeetingStore wires the store. cache may be nil.
func NewMeetingStore(repo *MeetingRepository, outboxRepo *outbox.Repository, conv *convert.Converter, cache DayCache, logger *slog.Logger, observe CacheObserver) *MeetingStore {
	return &MeetingStore{
		repo:    repo,
		loader:  repo,
		keys:    repo,
		outbox:  outboxRepo,
		conv:    conv,
		cache:   cache,
		logger:  logger,
		observe: observe,
		now:     time.Now,
	}
}

// BookedSlots returns the booked times that fall on date in zone. Storage is keyed by business
// date, and a client date overlaps the business dates either side of it.
func (s *MeetingStore) BookedSlots(ctx context.Context, date model.CalendarDate, zone model.ZoneID) ([]model.ClockTime, error) {
	out := []model.ClockTime{}
	for delta := -1; delta <= 1; delta++ {
		businessDate := date.AddDays(delta)
		clocks, err := s.businessDay(ctx, businessDate)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s: %v", booking.ErrTransportFailure, businessDate, err)
		}
		for _, c := range clocks {
			d, local, err := s.conv.ToClientLocal(businessDate, c, zone)
			if err != nil {
				return nil, err
			}
			if d == date {
				out = append(out, local)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Minute < out[j].Minute
	})
	return out, nil
}

func (s *MeetingStore) businessDay(ctx context.Context, businessDate model.CalendarDate) ([]model.ClockTime, error) {
	if s.cache != nil {
		clocks, hit, err := s.cache.Get(ctx, businessDate)
		if err != nil {
			s.logger.Warn("booked cache read failed", "err", err, "date", businessDate.String())
		}
		if s.observe != nil {
			s.observe(hit)
		}
		if hit {
			return clocks, nil
		}
	}

	clocks, err := s.loader.BusinessDay(ctx, businessDate)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, businessDate, clocks); err != nil {
			s.logger.Warn("booked cache write failed", "err", err, "date", businessDate.String())
		}
	}
	return clocks, nil
}

// Replay returns the meeting already stored under an idempotency key.
func (s *MeetingStore) Replay(ctx context.Context, key string) (model.Meeting, bool, error) {
	if key == "" || s.keys == nil {
		return model.Meeting{}, false, nil
	}
	m, ok, err := s.keys.ByIdempotencyKey(ctx, key)
	if err != nil {
		return model.Meeting{}, false, fmt.Errorf("%w: idempotency lookup: %v", booking.ErrTransportFailure, err)
	}
	return m, ok, nil
}

// CreateMeeting stores req. A replayed idempotency key returns the meeting stored for it.
func (s *MeetingStore) CreateMeeting(ctx context.Context, req model.BookingRequest) (model.Meeting, error) {
	startsAt, err := s.conv.Instant(model.LocalInstant{Date: req.BusinessDate, Clock: req.BusinessTime, Zone: s.conv.Business()})
	if err != nil {
		return model.Meeting{}, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("%w: %v", booking.ErrTransportFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	key := booking.IdempotencyKey(ctx)
	if key != "" {
		rec, exists, err := s.repo.LockIdempotencyKey(ctx, tx, key)
		if err != nil {
			return model.Meeting{}, fmt.Errorf("lock idempotency key: %w", err)
		}
		if exists && rec.MeetingID != "" {
			return s.repo.Get(ctx, tx, rec.MeetingID)
		}
	}

	m := model.Meeting{
		ID:             uuid.NewString(),
		BookingRequest: req,
		Status:         model.MeetingStatusBooked,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, tx, m, startsAt); err != nil {
		if IsConflict(err) {
			return model.Meeting{}, fmt.Errorf("%w: %s %s", booking.ErrSlotConflict, req.BusinessDate, req.BusinessTime)
		}
		return model.Meeting{}, fmt.Errorf("insert meeting: %w", err)
	}

	evt, err := outbox.NewConsultationBooked(m, startsAt.UTC().Format(time.RFC3339))
	if err != nil {
		return model.Meeting{}, err
	}
	if err := s.outbox.Insert(ctx, tx, evt); err != nil {
		return model.Meeting{}, fmt.Errorf("write outbox event: %w", err)
	}
	if key != "" {
		if err := s.repo.FinalizeIdempotency(ctx, tx, key, m.ID); err != nil {
			return model.Meeting{}, fmt.Errorf("finalize idempotency key: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Meeting{}, fmt.Errorf("commit: %w", err)
	}

	s.Invalidate(ctx, req.BusinessDate)
	return m, nil
}

// Invalidate drops cached booked sets for the given business dates.
func (s *MeetingStore) Invalidate(ctx context.Context, businessDates ...model.CalendarDate) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, businessDates...); err != nil {
		s.logger.Warn("booked cache invalidate failed", "err", err)
	}
}

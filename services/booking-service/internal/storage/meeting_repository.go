package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/md-rashed-zaman/consultbook/libs/db"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

type MeetingRepository struct {
	pool *db.Pool
}

type IdempotencyRecord struct {
	IdempotencyKey string
	MeetingID      string
}

func NewMeetingRepository(pool *db.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

func (r *MeetingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// LockIdempotencyKey row-locks key for the rest of tx, creating it if needed. exists reports
// whether the key was already present.
func (r *MeetingRepository) LockIdempotencyKey(ctx context.Context, tx pgx.Tx, key string) (IdempotencyRecord, bool, error) {
	rec, err := r.selectIdempotencyForUpdate(ctx, tx, key)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return IdempotencyRecord{}, false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO meeting_idempotency_keys (idempotency_key)
		VALUES ($1)
		ON CONFLICT (idempotency_key) DO NOTHING
	`, key)
	if err != nil {
		return IdempotencyRecord{}, false, err
	}

	rec, err = r.selectIdempotencyForUpdate(ctx, tx, key)
	if err != nil {
		return IdempotencyRecord{}, false, err
	}
	return rec, false, nil
}

func (r *MeetingRepository) FinalizeIdempotency(ctx context.Context, tx pgx.Tx, key, meetingID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE meeting_idempotency_keys
		SET meeting_id = $2,
			updated_at = now()
		WHERE idempotency_key = $1
	`, key, meetingID)
	return err
}

func (r *MeetingRepository) Insert(ctx context.Context, tx pgx.Tx, m model.Meeting, startsAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO meetings
			(id, client_name, description, email, client_date, client_time, client_zone, bg_date, bg_time, starts_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, m.ID, m.ClientName, m.Description, m.Email,
		dateValue(m.ClientDate), m.ClientTime.String(), string(m.ClientZone),
		dateValue(m.BusinessDate), m.BusinessTime.String(),
		startsAt.UTC(), m.Status, m.CreatedAt)
	return err
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *MeetingRepository) Get(ctx context.Context, tx pgx.Tx, id string) (model.Meeting, error) {
	return getMeeting(ctx, tx, id)
}

// ByIdempotencyKey returns the meeting finalized under key, if any.
func (r *MeetingRepository) ByIdempotencyKey(ctx context.Context, key string) (model.Meeting, bool, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(meeting_id::text, '')
		FROM meeting_idempotency_keys
		WHERE idempotency_key = $1
	`, key).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && id == "") {
		return model.Meeting{}, false, nil
	}
	if err != nil {
		return model.Meeting{}, false, err
	}
	m, err := getMeeting(ctx, r.pool, id)
	if err != nil {
		return model.Meeting{}, false, err
	}
	return m, true, nil
}

func getMeeting(ctx context.Context, q rowQuerier, id string) (model.Meeting, error) {
	var (
		m                  model.Meeting
		clientDate, bgDate time.Time
		clientTime, bgTime string
		clientZone         string
	)
	err := q.QueryRow(ctx, `
		SELECT id::text, client_name, description, email, client_date, client_time, client_zone,
			bg_date, bg_time, status, created_at
		FROM meetings
		WHERE id = $1
	`, id).Scan(
		&m.ID,
		&m.ClientName,
		&m.Description,
		&m.Email,
		&clientDate,
		&clientTime,
		&clientZone,
		&bgDate,
		&bgTime,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		return model.Meeting{}, err
	}
	m.ClientDate = model.DateOf(clientDate)
	m.BusinessDate = model.DateOf(bgDate)
	m.ClientZone = model.ZoneID(clientZone)
	if m.ClientTime, err = model.ParseClock(clientTime); err != nil {
		return model.Meeting{}, err
	}
	if m.BusinessTime, err = model.ParseClock(bgTime); err != nil {
		return model.Meeting{}, err
	}
	return m, nil
}

// BusinessDay lists the booked business-local times of one business date.
func (r *MeetingRepository) BusinessDay(ctx context.Context, businessDate model.CalendarDate) ([]model.ClockTime, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT bg_time
		FROM meetings
		WHERE bg_date = $1 AND status = 'booked'
		ORDER BY bg_time ASC
	`, dateValue(businessDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ClockTime{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		c, err := model.ParseClock(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func dateValue(d model.CalendarDate) time.Time {
	return model.LocalInstant{Date: d}.Naive()
}

func (r *MeetingRepository) selectIdempotencyForUpdate(ctx context.Context, tx pgx.Tx, key string) (IdempotencyRecord, error) {
	var rec IdempotencyRecord
	err := tx.QueryRow(ctx, `
		SELECT idempotency_key, COALESCE(meeting_id::text, '')
		FROM meeting_idempotency_keys
		WHERE idempotency_key = $1
		FOR UPDATE
	`, key).Scan(&rec.IdempotencyKey, &rec.MeetingID)
	if err != nil {
		return IdempotencyRecord{}, err
	}
	return rec, nil
}

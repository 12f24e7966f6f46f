package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sportcenter/internal/facility"
	"sportcenter/internal/journal"
	"sportcenter/internal/store"
)

type memberRow struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	Active bool   `db:"active"`
}

func (r memberRow) model() facility.Member {
	return facility.Member{ID: r.ID, Name: r.Name, Email: r.Email, Active: r.Active}
}

type activityRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Capacity int    `db:"capacity"`
}

func (r activityRow) model() facility.Activity {
	return facility.Activity{ID: r.ID, Name: r.Name, Capacity: r.Capacity}
}

type reservationRow struct {
	ID         int64  `db:"id"`
	MemberID   int64  `db:"member_id"`
	ActivityID int64  `db:"activity_id"`
	Day        string `db:"day"`
}

func (r reservationRow) model() (facility.Reservation, error) {
	day, err := facility.ParseDay(r.Day)
	if err != nil {
		return facility.Reservation{}, fmt.Errorf("reservation %d has malformed day %q: %w", r.ID, r.Day, err)
	}
	return facility.Reservation{ID: r.ID, MemberID: r.MemberID, ActivityID: r.ActivityID, Date: day}, nil
}

type eventRow struct {
	Seq       int64  `db:"seq"`
	ID        string `db:"id"`
	Type      string `db:"event_type"`
	Entity    string `db:"entity"`
	EntityID  int64  `db:"entity_id"`
	Payload   string `db:"payload"`
	CreatedAt string `db:"created_at"`
}

func (r eventRow) model() (journal.Event, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return journal.Event{}, fmt.Errorf("event %d has malformed id: %w", r.Seq, err)
	}
	at, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return journal.Event{}, fmt.Errorf("event %d has malformed timestamp: %w", r.Seq, err)
	}
	return journal.Event{
		Seq:       r.Seq,
		ID:        id,
		Type:      r.Type,
		Entity:    r.Entity,
		EntityID:  r.EntityID,
		Payload:   []byte(r.Payload),
		CreatedAt: at,
	}, nil
}

type tx struct {
	tx       *sqlx.Tx
	readOnly bool
}

func (t *tx) writable() error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	return nil
}

func (t *tx) get(ctx context.Context, dest any, query string, args ...any) error {
	err := t.tx.GetContext(ctx, dest, t.tx.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (t *tx) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return t.tx.SelectContext(ctx, dest, t.tx.Rebind(query), args...)
}

// exec runs a write and reports store.ErrNotFound when no row matched.
func (t *tx) exec(ctx context.Context, fk error, query string, args ...any) error {
	if err := t.writable(); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	if err != nil {
		return translate(err, fk)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t *tx) insert(ctx context.Context, fk error, query string, args ...any) (int64, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	var id int64
	if err := t.tx.QueryRowxContext(ctx, t.tx.Rebind(query), args...).Scan(&id); err != nil {
		return 0, translate(err, fk)
	}
	return id, nil
}

func (t *tx) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := t.tx.GetContext(ctx, &n, t.tx.Rebind(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *tx) ListMembers(ctx context.Context) ([]facility.Member, error) {
	var rows []memberRow
	if err := t.selectAll(ctx, &rows, `SELECT id, name, email, active FROM members ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]facility.Member, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (t *tx) GetMember(ctx context.Context, id int64) (facility.Member, error) {
	var row memberRow
	if err := t.get(ctx, &row, `SELECT id, name, email, active FROM members WHERE id = ?`, id); err != nil {
		return facility.Member{}, err
	}
	return row.model(), nil
}

func (t *tx) CountMembers(ctx context.Context) (int, error) {
	return t.count(ctx, `SELECT COUNT(*) FROM members`)
}

func (t *tx) InsertMember(ctx context.Context, m facility.Member) (facility.Member, error) {
	id, err := t.insert(ctx, store.ErrDangling,
		`INSERT INTO members (name, email, active) VALUES (?, ?, ?) RETURNING id`,
		m.Name, m.Email, m.Active)
	if err != nil {
		return facility.Member{}, err
	}
	m.ID = id
	return m, nil
}

func (t *tx) UpdateMember(ctx context.Context, m facility.Member) error {
	return t.exec(ctx, store.ErrDangling,
		`UPDATE members SET name = ?, email = ?, active = ? WHERE id = ?`,
		m.Name, m.Email, m.Active, m.ID)
}

func (t *tx) DeleteMember(ctx context.Context, id int64) error {
	return t.exec(ctx, store.ErrReferenced, `DELETE FROM members WHERE id = ?`, id)
}

func (t *tx) ListActivities(ctx context.Context) ([]facility.Activity, error) {
	var rows []activityRow
	if err := t.selectAll(ctx, &rows, `SELECT id, name, capacity FROM activities ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]facility.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (t *tx) GetActivity(ctx context.Context, id int64) (facility.Activity, error) {
	var row activityRow
	if err := t.get(ctx, &row, `SELECT id, name, capacity FROM activities WHERE id = ?`, id); err != nil {
		return facility.Activity{}, err
	}
	return row.model(), nil
}

func (t *tx) CountActivities(ctx context.Context) (int, error) {
	return t.count(ctx, `SELECT COUNT(*) FROM activities`)
}

func (t *tx) InsertActivity(ctx context.Context, a facility.Activity) (facility.Activity, error) {
	id, err := t.insert(ctx, store.ErrDangling,
		`INSERT INTO activities (name, capacity) VALUES (?, ?) RETURNING id`,
		a.Name, a.Capacity)
	if err != nil {
		return facility.Activity{}, err
	}
	a.ID = id
	return a, nil
}

func (t *tx) UpdateActivity(ctx context.Context, a facility.Activity) error {
	return t.exec(ctx, store.ErrDangling,
		`UPDATE activities SET name = ?, capacity = ? WHERE id = ?`,
		a.Name, a.Capacity, a.ID)
}

func (t *tx) DeleteActivity(ctx context.Context, id int64) error {
	return t.exec(ctx, store.ErrReferenced, `DELETE FROM activities WHERE id = ?`, id)
}

func (t *tx) ListReservations(ctx context.Context) ([]facility.Reservation, error) {
	var rows []reservationRow
	if err := t.selectAll(ctx, &rows, `SELECT id, member_id, activity_id, day FROM reservations ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	out := make([]facility.Reservation, 0, len(rows))
	for _, r := range rows {
		res, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (t *tx) GetReservation(ctx context.Context, id int64) (facility.Reservation, error) {
	var row reservationRow
	if err := t.get(ctx, &row, `SELECT id, member_id, activity_id, day FROM reservations WHERE id = ?`, id); err != nil {
		return facility.Reservation{}, err
	}
	return row.model()
}

func (t *tx) InsertReservation(ctx context.Context, r facility.Reservation) (facility.Reservation, error) {
	id, err := t.insert(ctx, store.ErrDangling,
		`INSERT INTO reservations (member_id, activity_id, day) VALUES (?, ?, ?) RETURNING id`,
		r.MemberID, r.ActivityID, facility.FormatDay(r.Date))
	if err != nil {
		return facility.Reservation{}, err
	}
	r.ID = id
	r.Date = facility.Day(r.Date)
	return r, nil
}

func (t *tx) UpdateReservation(ctx context.Context, r facility.Reservation) error {
	return t.exec(ctx, store.ErrDangling,
		`UPDATE reservations SET member_id = ?, activity_id = ?, day = ? WHERE id = ?`,
		r.MemberID, r.ActivityID, facility.FormatDay(r.Date), r.ID)
}

func (t *tx) DeleteReservation(ctx context.Context, id int64) error {
	return t.exec(ctx, store.ErrReferenced, `DELETE FROM reservations WHERE id = ?`, id)
}

func (t *tx) CountReservations(ctx context.Context, activityID int64, day time.Time, excludeID int64) (int, error) {
	if excludeID < 0 {
		excludeID = 0
	}
	return t.count(ctx,
		`SELECT COUNT(*) FROM reservations WHERE activity_id = ? AND day = ? AND id <> ?`,
		activityID, facility.FormatDay(day), excludeID)
}

func (t *tx) ExistsReservation(ctx context.Context, ref store.ReservationRef) (bool, error) {
	if ref.MemberID == 0 && ref.ActivityID == 0 {
		return false, fmt.Errorf("reservation reference without member or activity")
	}
	n, err := t.count(ctx,
		`SELECT COUNT(*) FROM reservations WHERE (? = 0 OR member_id = ?) AND (? = 0 OR activity_id = ?)`,
		ref.MemberID, ref.MemberID, ref.ActivityID, ref.ActivityID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *tx) AppendEvent(ctx context.Context, e journal.Event) (journal.Event, error) {
	seq, err := t.insert(ctx, store.ErrDangling,
		`INSERT INTO events (id, event_type, entity, entity_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING seq`,
		e.ID.String(), e.Type, e.Entity, e.EntityID, string(e.Payload), e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return journal.Event{}, fmt.Errorf("append event: %w", err)
	}
	e.Seq = seq
	return e, nil
}

func (t *tx) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]journal.Event, error) {
	var rows []eventRow
	err := t.selectAll(ctx, &rows,
		`SELECT seq, id, event_type, entity, entity_id, payload, created_at
		FROM events WHERE seq > ? ORDER BY seq LIMIT ?`,
		afterSeq, journal.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]journal.Event, 0, len(rows))
	for _, r := range rows {
		e, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

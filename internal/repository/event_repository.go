package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gatheringhouse/event-signup/internal/model"
)

// EventRepo provides CRUD and aggregation for events and their named
// parts. Confirmed counts are always computed from the applications table
// at read time; availability itself is derived by the caller via
// model.ResolveStatus, never stored.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span events and applications.
func (r *EventRepo) DB() *sql.DB { return r.db }

func locationArg(loc *string) interface{} {
	if loc == nil || *loc == "" {
		return nil
	}
	return *loc
}

const eventColumns = `e.id, e.title, e.description, e.event_date, e.start_time, e.end_time,
	e.location, e.capacity_male, e.capacity_female,
	e.price_male_standard, e.price_male_premium,
	e.price_female_standard, e.price_female_premium,
	e.application_deadline, e.status, e.created_by, e.created_at, e.updated_at`

func scanEvent(scan func(dest ...interface{}) error) (model.Event, error) {
	var (
		ev        model.Event
		desc      sql.NullString
		location  sql.NullString
		createdBy sql.NullInt64
	)
	err := scan(
		&ev.ID, &ev.Title, &desc, &ev.EventDate, &ev.StartTime, &ev.EndTime,
		&location, &ev.CapacityMale, &ev.CapacityFemale,
		&ev.PriceMaleStandard, &ev.PriceMalePremium,
		&ev.PriceFemaleStandard, &ev.PriceFemalePremium,
		&ev.Deadline, &ev.Status, &createdBy, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return model.Event{}, err
	}
	if desc.Valid {
		ev.Description = desc.String
	}
	if location.Valid {
		loc := location.String
		ev.Location = &loc
	}
	if createdBy.Valid {
		ev.CreatedBy = uint64(createdBy.Int64)
	}
	return ev, nil
}

// Create inserts an event and its parts in one transaction and populates
// the generated ID.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO events
		(title, description, event_date, start_time, end_time, location,
		 capacity_male, capacity_female,
		 price_male_standard, price_male_premium, price_female_standard, price_female_premium,
		 application_deadline, created_by)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		ev.Title, nullableString(ev.Description), ev.EventDate, ev.StartTime, ev.EndTime,
		locationArg(ev.Location),
		ev.CapacityMale, ev.CapacityFemale,
		ev.PriceMaleStandard, ev.PriceMalePremium,
		ev.PriceFemaleStandard, ev.PriceFemalePremium,
		ev.Deadline, ev.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	if err := insertPartsTx(ctx, tx, ev.ID, ev.Parts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites the event row and replaces its parts. ErrEventNotFound
// is returned when the event does not exist.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var one int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id=?", ev.ID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrEventNotFound
		}
		return err
	}
	const q = `UPDATE events SET
		title=?, description=?, event_date=?, start_time=?, end_time=?, location=?,
		capacity_male=?, capacity_female=?,
		price_male_standard=?, price_male_premium=?, price_female_standard=?, price_female_premium=?,
		application_deadline=?
		WHERE id=?`
	if _, err := tx.ExecContext(ctx, q,
		ev.Title, nullableString(ev.Description), ev.EventDate, ev.StartTime, ev.EndTime,
		locationArg(ev.Location),
		ev.CapacityMale, ev.CapacityFemale,
		ev.PriceMaleStandard, ev.PriceMalePremium,
		ev.PriceFemaleStandard, ev.PriceFemalePremium,
		ev.Deadline, ev.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_parts WHERE event_id=?", ev.ID); err != nil {
		return err
	}
	if err := insertPartsTx(ctx, tx, ev.ID, ev.Parts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Cancel soft-cancels an event so it disappears from member listings while
// historical applications keep their foreign key.
func (r *EventRepo) Cancel(ctx context.Context, eventID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE events SET status='CANCELLED' WHERE id=? AND status='ACTIVE'", eventID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// insertPartsTx bulk-inserts the named parts of an event.
func insertPartsTx(ctx context.Context, tx *sql.Tx, eventID uint64, parts []model.EventPart) error {
	if len(parts) == 0 {
		return nil
	}
	query := `INSERT INTO event_parts (event_id, label, time_range) VALUES `
	args := make([]interface{}, 0, len(parts)*3)
	for i, p := range parts {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, eventID, p.Label, p.TimeRange)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID loads one active event with its parts and confirmed counts.
func (r *EventRepo) GetByID(ctx context.Context, eventID uint64) (*model.EventWithCounts, error) {
	const q = `SELECT ` + eventColumns + `,
		COALESCE(SUM(CASE WHEN a.status='confirmed' AND a.gender='male' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN a.status='confirmed' AND a.gender='female' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN a.status<>'cancelled' AND a.gender='male' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN a.status<>'cancelled' AND a.gender='female' THEN 1 ELSE 0 END),0)
		FROM events e
		LEFT JOIN applications a ON a.event_id = e.id
		WHERE e.id = ? AND e.status = 'ACTIVE'
		GROUP BY e.id`
	row := r.db.QueryRowContext(ctx, q, eventID)
	var out model.EventWithCounts
	ev, err := scanEvent(func(dest ...interface{}) error {
		dest = append(dest, &out.MaleConfirmed, &out.FemaleConfirmed, &out.MaleTotal, &out.FemaleTotal)
		return row.Scan(dest...)
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	out.Event = ev
	if err := r.loadParts(ctx, []*model.EventWithCounts{&out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUpcoming returns active events whose date is on or after `from`,
// oldest first, each with confirmed counts and parts.
func (r *EventRepo) ListUpcoming(ctx context.Context, from time.Time) ([]*model.EventWithCounts, error) {
	const q = `SELECT ` + eventColumns + `,
		COALESCE(SUM(CASE WHEN a.status='confirmed' AND a.gender='male' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN a.status='confirmed' AND a.gender='female' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN a.status<>'cancelled' AND a.gender='male' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN a.status<>'cancelled' AND a.gender='female' THEN 1 ELSE 0 END),0)
		FROM events e
		LEFT JOIN applications a ON a.event_id = e.id
		WHERE e.status = 'ACTIVE' AND e.event_date >= ?
		GROUP BY e.id
		ORDER BY e.event_date ASC, e.start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, from.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*model.EventWithCounts, 0)
	for rows.Next() {
		var out model.EventWithCounts
		ev, err := scanEvent(func(dest ...interface{}) error {
			dest = append(dest, &out.MaleConfirmed, &out.FemaleConfirmed, &out.MaleTotal, &out.FemaleTotal)
			return rows.Scan(dest...)
		})
		if err != nil {
			return nil, err
		}
		out.Event = ev
		events = append(events, &out)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadParts(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// loadParts populates Parts for all given events in a single query.
func (r *EventRepo) loadParts(ctx context.Context, events []*model.EventWithCounts) error {
	if len(events) == 0 {
		return nil
	}
	index := make(map[uint64]*model.EventWithCounts, len(events))
	args := make([]interface{}, 0, len(events))
	placeholders := ""
	for i, ev := range events {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, ev.ID)
		index[ev.ID] = ev
		ev.Parts = []model.EventPart{}
	}
	q := `SELECT event_id, label, time_range FROM event_parts
	      WHERE event_id IN (` + placeholders + `) ORDER BY event_id, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			eventID uint64
			part    model.EventPart
		)
		if err := rows.Scan(&eventID, &part.Label, &part.TimeRange); err != nil {
			return err
		}
		if ev, ok := index[eventID]; ok {
			ev.Parts = append(ev.Parts, part)
		}
	}
	return rows.Err()
}

// GetForUpdateTx locks the event row and returns it together with fresh
// confirmed counts, all inside the caller's transaction. The submit path
// uses this to re-derive availability at write time.
func (r *EventRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, eventID uint64) (*model.EventWithCounts, error) {
	const q = `SELECT ` + eventColumns + `
		FROM events e WHERE e.id = ? AND e.status = 'ACTIVE' FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, eventID)
	ev, err := scanEvent(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	out := &model.EventWithCounts{Event: ev}
	const countQ = `SELECT
		COALESCE(SUM(CASE WHEN status='confirmed' AND gender='male' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN status='confirmed' AND gender='female' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN status<>'cancelled' AND gender='male' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN status<>'cancelled' AND gender='female' THEN 1 ELSE 0 END),0)
		FROM applications WHERE event_id = ?`
	if err := tx.QueryRowContext(ctx, countQ, eventID).Scan(
		&out.MaleConfirmed, &out.FemaleConfirmed, &out.MaleTotal, &out.FemaleTotal); err != nil {
		return nil, err
	}
	return out, nil
}

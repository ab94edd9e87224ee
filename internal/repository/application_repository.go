package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gatheringhouse/event-signup/internal/model"
)

// ApplicationRepo persists applications and their frozen form snapshots.
// Writes that depend on current event state (submit, status transitions)
// run inside transactions with row locks so concurrent requests serialize
// per event or per application.
type ApplicationRepo struct{ db *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

// DB exposes the underlying handle for handler-driven transactions.
func (r *ApplicationRepo) DB() *sql.DB { return r.db }

// CreateTx inserts an application inside the caller's transaction after
// verifying no non-cancelled application exists for the (event, user)
// pair. The snapshot is serialized once and never rewritten.
func (r *ApplicationRepo) CreateTx(ctx context.Context, tx *sql.Tx, app *model.Application) error {
	var existing uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM applications
		 WHERE event_id=? AND user_id=? AND status<>'cancelled' LIMIT 1 FOR UPDATE`,
		app.EventID, app.UserID).Scan(&existing)
	if err == nil {
		return ErrDuplicateApplication
	}
	if err != sql.ErrNoRows {
		return err
	}
	snapshot, err := json.Marshal(app.Snapshot)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO applications (event_id, user_id, status, gender, form_snapshot)
		 VALUES (?,?,?,?,?)`,
		app.EventID, app.UserID, string(model.ApplicationPending), string(app.Gender), snapshot)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = uint64(id)
	app.Status = model.ApplicationPending
	return tx.QueryRowContext(ctx,
		"SELECT applied_at FROM applications WHERE id=?", app.ID).Scan(&app.AppliedAt)
}

// GetForUpdateTx locks one application row and returns its event, owner
// and current status. sql.ErrNoRows when absent.
func (r *ApplicationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (eventID, userID uint64, status model.ApplicationStatus, err error) {
	var s string
	err = tx.QueryRowContext(ctx,
		"SELECT event_id, user_id, status FROM applications WHERE id=? FOR UPDATE", id).
		Scan(&eventID, &userID, &s)
	status = model.ApplicationStatus(s)
	return
}

// SetStatusTx updates the status of a locked application row.
func (r *ApplicationRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ApplicationStatus) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE applications SET status=? WHERE id=?", string(status), id)
	return err
}

func scanApplication(scan func(dest ...interface{}) error, app *model.Application) error {
	var (
		status      string
		gender      string
		snapshotRaw []byte
	)
	if err := scan(&app.ID, &app.EventID, &app.UserID, &status, &gender,
		&snapshotRaw, &app.AppliedAt, &app.UpdatedAt); err != nil {
		return err
	}
	app.Status = model.ApplicationStatus(status)
	app.Gender = model.Gender(gender)
	return json.Unmarshal(snapshotRaw, &app.Snapshot)
}

// ListByUser returns all of a member's applications joined with event
// summaries, newest first. The handler partitions them into tabs.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ApplicationWithEvent, error) {
	const q = `SELECT a.id, a.event_id, a.user_id, a.status, a.gender,
	                  a.form_snapshot, a.applied_at, a.updated_at,
	                  e.title, e.event_date, e.start_time, e.end_time
	           FROM applications a
	           JOIN events e ON e.id = a.event_id
	           WHERE a.user_id = ?
	           ORDER BY a.applied_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ApplicationWithEvent, 0)
	for rows.Next() {
		var item model.ApplicationWithEvent
		err := scanApplication(func(dest ...interface{}) error {
			dest = append(dest, &item.EventTitle, &item.EventDate, &item.StartTime, &item.EndTime)
			return rows.Scan(dest...)
		}, &item.Application)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByEvent returns every application for an event, newest first.
func (r *ApplicationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Application, error) {
	const q = `SELECT id, event_id, user_id, status, gender, form_snapshot, applied_at, updated_at
	           FROM applications WHERE event_id = ? ORDER BY applied_at DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Application, 0)
	for rows.Next() {
		var app model.Application
		if err := scanApplication(rows.Scan, &app); err != nil {
			return nil, err
		}
		items = append(items, app)
	}
	return items, rows.Err()
}

// HasConfirmedForEvent reports whether the user holds a confirmed or
// completed application for the event. Used to reveal the venue location.
func (r *ApplicationRepo) HasConfirmedForEvent(ctx context.Context, eventID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM applications
		 WHERE event_id=? AND user_id=? AND status IN ('confirmed','completed') LIMIT 1`,
		eventID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasCompletedForEvent reports whether the user holds a completed
// application for the event, the review eligibility gate.
func (r *ApplicationRepo) HasCompletedForEvent(ctx context.Context, eventID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM applications
		 WHERE event_id=? AND user_id=? AND status='completed' LIMIT 1`,
		eventID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CompleteElapsed marks confirmed applications of events that fully ended
// before the cutoff as completed. The statement is idempotent: completed
// rows never match again, so the sweep can re-run safely. An event that
// crosses midnight ends on the next day, hence the one-day guard combined
// with the time comparison.
func (r *ApplicationRepo) CompleteElapsed(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `UPDATE applications a
	           JOIN events e ON e.id = a.event_id
	           SET a.status = 'completed'
	           WHERE a.status = 'confirmed'
	             AND TIMESTAMP(e.event_date, CONCAT(e.end_time, ':00'))
	                 + INTERVAL (CASE WHEN e.end_time <= e.start_time THEN 1 ELSE 0 END) DAY < ?`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

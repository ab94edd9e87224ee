package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gatheringhouse/event-signup/internal/model"
)

// ReviewRepo persists post-event reviews. The one-review-per-(event,user)
// rule is backed by a unique key; a duplicate insert surfaces as
// ErrDuplicateReview so handlers can route the client to update instead.
type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates its ID and timestamps.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (event_id, user_id, rating, content) VALUES (?,?,?,?)",
		rev.EventID, rev.UserID, rev.Rating, rev.Content)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM reviews WHERE id=?", rev.ID).
		Scan(&rev.CreatedAt, &rev.UpdatedAt)
}

// Update rewrites rating and content for the author's own review and
// refreshes updated_at; created_at never changes. ErrForbidden when the
// review belongs to someone else, sql.ErrNoRows when it does not exist.
func (r *ReviewRepo) Update(ctx context.Context, reviewID, userID uint64, rating int, content string) (*model.Review, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM reviews WHERE id=?", reviewID).Scan(&ownerID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET rating=?, content=?, updated_at=NOW() WHERE id=?",
		rating, content, reviewID); err != nil {
		return nil, err
	}
	return r.getByID(ctx, reviewID)
}

func (r *ReviewRepo) getByID(ctx context.Context, reviewID uint64) (*model.Review, error) {
	var rev model.Review
	err := r.db.QueryRowContext(ctx,
		`SELECT id, event_id, user_id, rating, content, created_at, updated_at
		 FROM reviews WHERE id=?`, reviewID).
		Scan(&rev.ID, &rev.EventID, &rev.UserID, &rev.Rating, &rev.Content,
			&rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// GetByEventAndUser returns a member's review for an event, or
// sql.ErrNoRows when none exists.
func (r *ReviewRepo) GetByEventAndUser(ctx context.Context, eventID, userID uint64) (*model.Review, error) {
	var rev model.Review
	err := r.db.QueryRowContext(ctx,
		`SELECT id, event_id, user_id, rating, content, created_at, updated_at
		 FROM reviews WHERE event_id=? AND user_id=?`, eventID, userID).
		Scan(&rev.ID, &rev.EventID, &rev.UserID, &rev.Rating, &rev.Content,
			&rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListByEvent returns all reviews for one event, newest first.
func (r *ReviewRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.ReviewWithEvent, error) {
	const q = `SELECT r.id, r.event_id, r.user_id, r.rating, r.content,
	                  r.created_at, r.updated_at, e.title, e.event_date, p.name
	           FROM reviews r
	           JOIN events e ON e.id = r.event_id
	           JOIN profiles p ON p.user_id = r.user_id
	           WHERE r.event_id = ?
	           ORDER BY r.created_at DESC`
	return r.queryReviews(ctx, q, eventID)
}

// ListAll returns every review for the admin browser, optionally filtered
// to a single rating. sort is one of "newest", "oldest", "rating_desc",
// "rating_asc"; anything else falls back to newest.
func (r *ReviewRepo) ListAll(ctx context.Context, rating int, sort string) ([]model.ReviewWithEvent, error) {
	q := `SELECT r.id, r.event_id, r.user_id, r.rating, r.content,
	             r.created_at, r.updated_at, e.title, e.event_date, p.name
	      FROM reviews r
	      JOIN events e ON e.id = r.event_id
	      JOIN profiles p ON p.user_id = r.user_id`
	args := []interface{}{}
	if rating >= model.ReviewMinRating && rating <= model.ReviewMaxRating {
		q += " WHERE r.rating = ?"
		args = append(args, rating)
	}
	switch sort {
	case "oldest":
		q += " ORDER BY r.created_at ASC"
	case "rating_desc":
		q += " ORDER BY r.rating DESC, r.created_at DESC"
	case "rating_asc":
		q += " ORDER BY r.rating ASC, r.created_at DESC"
	default:
		q += " ORDER BY r.created_at DESC"
	}
	return r.queryReviews(ctx, q, args...)
}

func (r *ReviewRepo) queryReviews(ctx context.Context, q string, args ...interface{}) ([]model.ReviewWithEvent, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ReviewWithEvent, 0)
	for rows.Next() {
		var item model.ReviewWithEvent
		if err := rows.Scan(&item.ID, &item.EventID, &item.UserID, &item.Rating,
			&item.Content, &item.CreatedAt, &item.UpdatedAt,
			&item.EventTitle, &item.EventDate, &item.AuthorName); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

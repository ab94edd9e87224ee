package model

import "time"

// Review field bounds, enforced at the boundary for both create and update.
const (
	ReviewMinRating     = 1
	ReviewMaxRating     = 5
	ReviewMaxContentLen = 300
)

// Review mirrors the `reviews` table. At most one review exists per
// (event, user) pair, enforced by a unique key, and only members with a
// completed application for the event may write one.
type Review struct {
	ID        uint64    `json:"id"`
	EventID   uint64    `json:"event_id"`
	UserID    uint64    `json:"user_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewWithEvent adds event context for the admin review browser.
type ReviewWithEvent struct {
	Review
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	AuthorName string    `json:"author_name"`
}

// ReviewStats aggregates ratings over a set of reviews: the mean and a
// per-star histogram indexed 1..5.
type ReviewStats struct {
	Count     int         `json:"count"`
	Average   float64     `json:"average"`
	Histogram map[int]int `json:"histogram"`
}

// ComputeReviewStats folds a review list into its rating statistics.
// Ratings outside 1..5 cannot exist in stored rows and are ignored.
func ComputeReviewStats(reviews []ReviewWithEvent) ReviewStats {
	stats := ReviewStats{Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, r := range reviews {
		if r.Rating < ReviewMinRating || r.Rating > ReviewMaxRating {
			continue
		}
		stats.Count++
		sum += r.Rating
		stats.Histogram[r.Rating]++
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats
}

// ValidateReviewFields checks rating and content bounds shared by create
// and update. It returns a ValidationError listing every violated field.
func ValidateReviewFields(rating int, content string) error {
	ve := NewValidationError()
	if rating < ReviewMinRating || rating > ReviewMaxRating {
		ve.Add("rating", "rating must be between 1 and 5")
	}
	if len([]rune(content)) == 0 {
		ve.Add("content", "content is required")
	} else if len([]rune(content)) > ReviewMaxContentLen {
		ve.Add("content", "content must be at most 300 characters")
	}
	return ve.OrNil()
}

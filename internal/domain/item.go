package domain

import (
	"time"
)

// Item represents a sellable product owned by an influencer. An item may
// belong to an item group, in which case ExtraFeatures holds its selected
// value for each of the group's variant axes.
type Item struct {
	ID            string            `json:"id"`
	InfluencerID  string            `json:"influencer_id"`
	ItemGroupID   *string           `json:"item_group_id,omitempty"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Price         int64             `json:"price"` // minor currency units
	Quantity      int               `json:"quantity"`
	ImageURLs     []string          `json:"image_urls,omitempty"`
	ExtraFeatures map[string]string `json:"extra_features,omitempty"`
	AverageStars  *float64          `json:"average_stars,omitempty"`
	StarsCount    int               `json:"stars_count"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     *time.Time        `json:"deleted_at,omitempty"`
}

// ItemStar is a single user's 1-5 rating of an item. At most one active star
// exists per (user, item) pair; repeat ratings update the row in place.
type ItemStar struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"item_id"`
	UserID    string     `json:"user_id"`
	Stars     int        `json:"stars"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Favorite marks an item as favorited by a user.
type Favorite struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MinStars and MaxStars bound the allowed rating values.
const (
	MinStars = 1
	MaxStars = 5
)

// ValidStars reports whether the given rating is in the allowed 1-5 range.
func ValidStars(stars int) bool {
	return stars >= MinStars && stars <= MaxStars
}

// RatingSummary is the maintained aggregate of an item's star ratings.
// Average is nil when no ratings exist.
type RatingSummary struct {
	Average *float64
	Count   int
}

// Add returns the summary after a brand-new rating is recorded. The average
// is maintained incrementally: (avg*n + stars) / (n+1).
func (s RatingSummary) Add(stars int) RatingSummary {
	old := 0.0
	if s.Average != nil {
		old = *s.Average
	}
	next := (old*float64(s.Count) + float64(stars)) / float64(s.Count+1)
	return RatingSummary{Average: &next, Count: s.Count + 1}
}

// Replace returns the summary after an existing rating changes from oldStars
// to newStars. The count is unchanged: (avg*n - old + new) / n.
func (s RatingSummary) Replace(oldStars, newStars int) RatingSummary {
	if s.Average == nil || s.Count == 0 {
		// No ratings recorded; nothing to substitute.
		return s
	}
	next := (*s.Average*float64(s.Count) - float64(oldStars) + float64(newStars)) / float64(s.Count)
	return RatingSummary{Average: &next, Count: s.Count}
}

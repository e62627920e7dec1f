package domain

import (
	"time"
)

// Comment is a user's comment on an item. Likes and Dislikes are maintained
// counters derived from comment votes.
type Comment struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"item_id"`
	UserID    string     `json:"user_id"`
	Content   string     `json:"content"`
	Likes     int        `json:"likes"`
	Dislikes  int        `json:"dislikes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// CommentVote records a single user's like or dislike of a comment. At most
// one active vote exists per (user, comment) pair.
type CommentVote struct {
	ID        string    `json:"id"`
	CommentID string    `json:"comment_id"`
	UserID    string    `json:"user_id"`
	IsLike    bool      `json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package domain

import "time"

// Address is a user's saved delivery address.
type Address struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Label     string     `json:"label"`
	Line1     string     `json:"line1"`
	Line2     string     `json:"line2,omitempty"`
	City      string     `json:"city"`
	State     string     `json:"state,omitempty"`
	Country   string     `json:"country"`
	ZipCode   string     `json:"zip_code"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

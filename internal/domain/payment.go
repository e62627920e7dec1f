package domain

import "time"

// PaymentMethod is a user's saved card. Only non-sensitive display fields are
// stored; the PAN never reaches this service.
type PaymentMethod struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CardHolder  string     `json:"card_holder"`
	Brand       string     `json:"brand"`
	Last4       string     `json:"last4"`
	ExpiryMonth int        `json:"expiry_month"`
	ExpiryYear  int        `json:"expiry_year"`
	IsDefault   bool       `json:"is_default"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

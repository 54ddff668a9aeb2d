package models

import (
	"time"
)

// Profile is a user profile document keyed by the OAuth subject id.
// Stored in MongoDB; the saved-listing set and receipt list live on the
// document itself rather than in relational tables.
type Profile struct {
	Subject       string    `json:"subject" bson:"_id"`
	Email         string    `json:"email" bson:"email"`
	Name          string    `json:"name" bson:"name"`
	Image         string    `json:"image" bson:"image"`
	Provider      string    `json:"provider" bson:"provider"`
	SavedListings []string  `json:"saved_listings" bson:"savedListings"`
	Receipts      []Receipt `json:"receipts" bson:"receipts"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
	LastActiveAt  time.Time `json:"last_active_at" bson:"lastActiveAt"`
}

// Receipt records a completed rent payment linked to a profile.
type Receipt struct {
	RentalID string    `json:"rental_id" bson:"rentalId"`
	Month    uint64    `json:"month" bson:"month"`
	Amount   string    `json:"amount" bson:"amount"`
	TxHash   string    `json:"tx_hash" bson:"txHash"`
	PaidAt   time.Time `json:"paid_at" bson:"paidAt"`
}

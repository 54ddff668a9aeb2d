package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a housing listing row as stored in Postgres.
type Listing struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Location      string     `json:"location" db:"location"`
	State         string     `json:"state" db:"state"`
	Price         float64    `json:"price" db:"price"`
	ImageURL      string     `json:"image_url" db:"image_url"`
	Description   string     `json:"description" db:"description"`
	RoomType      string     `json:"room_type" db:"room_type"`
	AvailableFrom time.Time  `json:"available_from" db:"available_from"`
	Seed          string     `json:"seed" db:"seed"`
	Removed       bool       `json:"removed" db:"removed"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	RemovedAt     *time.Time `json:"removed_at,omitempty" db:"removed_at"`
}

// ListingSearchFilter narrows listing feed queries.
type ListingSearchFilter struct {
	Query    string   `json:"query"`
	RoomType *string  `json:"room_type,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Location *string  `json:"location,omitempty"`
}

// ListingView is the display shape served to clients. Community listings
// carry a generated persona derived from the listing seed.
type ListingView struct {
	Listing
	Poster *FakeUser `json:"poster,omitempty"`
}

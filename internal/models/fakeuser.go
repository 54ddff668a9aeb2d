package models

// FakeUser is a synthetic persona attached to community listings for display.
// Regenerated deterministically from a listing seed; never persisted.
type FakeUser struct {
	Name        string   `json:"name"`
	Initials    string   `json:"initials"`
	AvatarColor string   `json:"avatar_color"`
	Personality string   `json:"personality"`
	Interests   []string `json:"interests"`
}

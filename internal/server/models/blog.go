package models

import "time"

// Blog is a single post. OwnerID always references an existing user; Owner is
// populated on reads that resolve the owner reference.
type Blog struct {
	ID        string
	Title     string
	Content   string
	Category  string
	OwnerID   string
	Owner     *OwnerSummary
	CreatedAt time.Time
}

// OwnerSummary is the public projection of a blog owner embedded in blog
// reads. It never carries the password record.
type OwnerSummary struct {
	ID    string
	Name  string
	Email string
}

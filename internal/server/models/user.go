// Package models holds the persistent entities of the blog API.
package models

import "time"

// User is a registered identity. Password holds the KDF record in the
// "<hex-salt>.<hex-hash>" form, never the plaintext. BlogIDs is the
// denormalized list of blogs owned by the user, kept in sync with the blogs
// table by the blog service.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	BlogIDs   []string
	CreatedAt time.Time
}

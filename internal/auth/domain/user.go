package domain

import "time"

// User is a directory record. Email and username are unique across all
// users; HashedPassword is opaque and only ever compared through the
// credential hasher.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

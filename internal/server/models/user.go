// Package models defines server-side records persisted in the database.
package models

import "time"

// User is an account. PasswordHash is an encoded argon2id hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

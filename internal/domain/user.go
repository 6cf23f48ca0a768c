package domain

import "time"

// User is an account and a node in the follow graph.
type User struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Bio          string
	Link         string
	ProfileImg   string
	CoverImg     string
	Followers    []string
	Following    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package service

import "errors"

var (
	// ErrInvalidInput indicates a malformed or rejected request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotFound is returned when a referenced user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrSelfAction is returned when a user targets themselves with a follow toggle.
	ErrSelfAction = errors.New("cannot follow or unfollow yourself")
	// ErrUsernameTaken is returned when the requested username is in use.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken is returned when the requested email is in use.
	ErrEmailTaken = errors.New("email has already been used")
)

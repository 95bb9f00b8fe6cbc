package repositories

import "errors"

// Errors shared by every repository implementation. Services translate them
// into their own error kinds.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNoRowsAffected = errors.New("no rows affected")
)

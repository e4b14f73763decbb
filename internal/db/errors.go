package db

import "errors"

// Domain-level database error sentinels. Share link conditions use the
// sentinels owned by the sharelink package, since that package defines the
// lifecycle contract.
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Trip errors
	ErrTripNotFound   = errors.New("trip not found")
	ErrMomentNotFound = errors.New("moment not found")
)

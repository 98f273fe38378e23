package repository

import "errors"

// ErrNoRows is returned when a lookup matches nothing. The service layer maps
// it to its own not-found error.
var ErrNoRows = errors.New("no rows")

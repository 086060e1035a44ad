package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrStateConflict is returned when a conditional state transition matched no
// row, meaning a concurrent caller won the race or the window closed.
var ErrStateConflict = errors.New("state conflict")

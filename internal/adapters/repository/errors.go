package repository

import "errors"

// Sentinel errors for the snapshot store.
var (
	ErrNoSnapshot  = errors.New("no snapshot available")
	ErrNilSnapshot = errors.New("nil snapshot")
)

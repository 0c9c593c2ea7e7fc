package cli

import "errors"

// Error constants.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrSetup         = errors.New("command setup failed")
)

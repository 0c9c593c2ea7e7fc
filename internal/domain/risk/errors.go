package risk

import "errors"

// ErrUnknownSeverity is returned when a severity filter value is not recognized.
var ErrUnknownSeverity = errors.New("unknown severity filter")

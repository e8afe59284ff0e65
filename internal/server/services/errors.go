package services

import "errors"

// ErrNotConfigured is returned when an optional integration (payments,
// photo storage) has no credentials.
var ErrNotConfigured = errors.New("not configured")

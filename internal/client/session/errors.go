package session

import "errors"

// ErrStale is returned when a result was computed for a session that has since been reset.
var ErrStale = errors.New("session: result belongs to an abandoned session")

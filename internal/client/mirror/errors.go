package mirror

import "errors"

var (
	ErrUnknownMarker = errors.New("mirror: unknown record marker")
	ErrCorrupt       = errors.New("mirror: corrupt record")
)

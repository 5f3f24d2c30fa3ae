package recorder

import "errors"

// Sentinel kinds for recorder errors.
var (
	ErrUnknownRoute = errors.New("route not on this panel")
	ErrNotActive    = errors.New("no training in progress")
	ErrEnded        = errors.New("training already ended")
)

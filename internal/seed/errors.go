package seed

import "errors"

// Sentinel kinds for seeding errors.
var (
	ErrSeedFailed = errors.New("seeding failed")
)

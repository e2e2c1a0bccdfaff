package segment

import "errors"

var (
	// ErrInvalidConfig is returned by Open when the supplied Config is not usable.
	ErrInvalidConfig = errors.New("segment: invalid configuration")

	// ErrClosed is returned by Manager methods once Close has run.
	ErrClosed = errors.New("segment: manager is closed")

	// ErrFatalCorruption is returned by Open when a sealed, non-tail segment fails to
	// decode cleanly end to end. Unlike a torn tail in the active segment, this can never
	// be the result of a crash mid-write and is treated as unrecoverable.
	ErrFatalCorruption = errors.New("segment: fatal corruption in a sealed segment")
)

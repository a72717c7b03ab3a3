// Package errs defines the error kinds surfaced by the hparams backend.
// Call sites wrap these with fmt.Errorf("%w: ...") and callers match with errors.Is.
package errs

import "errors"

var (
	// ErrRequestFormat indicates a malformed or missing request payload.
	ErrRequestFormat = errors.New("malformed request")

	// ErrNotFound indicates that requested data, or a dependency needed to
	// produce it, does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformedName indicates an event-log filename that does not follow
	// the expected naming convention.
	ErrMalformedName = errors.New("malformed event file name")

	// ErrStorage indicates a filesystem failure other than a missing file.
	ErrStorage = errors.New("storage error")

	// ErrMalformedMetadata indicates a session metadata payload that cannot be decoded.
	ErrMalformedMetadata = errors.New("malformed session metadata")
)

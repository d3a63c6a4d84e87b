package vendorq

import "errors"

var (
	// ErrRemoteUnavailable covers transport and auth failures talking to the
	// vendor queue. Callers treat it as "no progress this cycle", never as a
	// task-level failure.
	ErrRemoteUnavailable = errors.New("vendor queue unavailable")

	// ErrEntryNotFound is returned when the media entry behind a task has been
	// deleted on the vendor side.
	ErrEntryNotFound = errors.New("entry not found")
)

// Vendor API error codes this adapter gives special treatment.
const (
	codeEntryNotFound = "ENTRY_ID_NOT_FOUND"
	codeInvalidKS     = "INVALID_KS"
	codeExpiredKS     = "EXPIRED_KS"
)

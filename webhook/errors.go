package webhook

import (
	"errors"
	"fmt"
)

/* Error taxonomy for the ingestion pipeline
 * Detection, signature and parsing failures are resolved at the HTTP layer;
 * handler failures never surface as errors, they become the record's status
 */

// ErrUnknownSource means no detection rule matched, or an explicit source ID
// does not exist or is disabled. The delivery is rejected before persistence.
var ErrUnknownSource = errors.New("unknown marketplace")

// ErrInvalidSignature means the authenticity check failed. The delivery is
// persisted as a failed security-audit record but never dispatched.
var ErrInvalidSignature = errors.New("invalid signature")

// ErrMalformedPayload means the body is not valid JSON. Nothing meaningful
// to store or replay, so the delivery is not persisted.
var ErrMalformedPayload = errors.New("malformed payload")

// ErrNotFound is returned by stores when a record ID does not exist
var ErrNotFound = errors.New("record not found")

// ErrSweepRunning is returned when a retry sweep is requested while a
// previous sweep is still active
var ErrSweepRunning = errors.New("retry sweep already running")

/* PersistenceError wraps a Payload Store write failure
 * The only error class surfaced as a 5xx: the gateway cannot guarantee the
 * delivery was recorded, and the platform is expected to retry on 5xx
 */
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

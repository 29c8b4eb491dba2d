package event

import "github.com/cockroachdb/errors"

// Errors returned by events and the registry.
var (
	// ErrUnresolvedReference indicates a missing track or item reference.
	ErrUnresolvedReference = errors.New("unresolved object reference")

	// ErrInvalidExecutionOrder indicates Run on a Ran event or Revert on an Idle one.
	ErrInvalidExecutionOrder = errors.New("invalid execution order")

	// ErrUnknownKind indicates a kind with no registered definition.
	ErrUnknownKind = errors.New("unknown event kind")

	// ErrDuplicateKind indicates a kind that is already registered.
	ErrDuplicateKind = errors.New("event kind already registered")

	// ErrMalformedRecord indicates a persisted record with missing or invalid fields.
	ErrMalformedRecord = errors.New("malformed event record")
)

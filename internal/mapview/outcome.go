package mapview

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrEmptyQuery is the cause of a search submitted with blank text.
	ErrEmptyQuery = errors.New("search text is empty")
	// ErrSuperseded is the cause of a result discarded because a newer request of the same kind was submitted.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrStopped is the cause of an operation that could not be applied because Run has returned.
	ErrStopped = errors.New("map view is stopped")
)

// Operation names a map view operation. It is used as a metric and log label.
type Operation string

const (
	OperationStartup        Operation = "startup"
	OperationSearch         Operation = "search"
	OperationDirections     Operation = "directions"
	OperationLookAround     Operation = "look_around"
	OperationSetSearchText  Operation = "set_search_text"
	OperationDismissScene   Operation = "dismiss_scene"
	OperationLocationUpdate Operation = "location_update"
)

// Kind is the collapsed result of an operation.
type Kind string

const (
	KindOK          Kind = "ok"
	KindNotFound    Kind = "not_found"   // search resolved nothing
	KindUnroutable  Kind = "unroutable"  // no route to the destination
	KindUnavailable Kind = "unavailable" // no street-level scene
	KindUnknown     Kind = "unknown"     // current location is unknown
	KindSuperseded  Kind = "superseded"
	KindCanceled    Kind = "canceled"
)

// Outcome is delivered exactly once per operation, after its result was applied or discarded.
// Err keeps the underlying cause for logging and is nil for KindOK.
type Outcome struct {
	ID        uuid.UUID
	Operation Operation
	Kind      Kind
	Err       error
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindOK
}

// failed reports whether the outcome is a failure worth recording in State.LastError.
func (o Outcome) failed() bool {
	return o.Err != nil && o.Kind != KindSuperseded && o.Kind != KindCanceled
}

func newOutcome(op Operation) Outcome {
	return Outcome{ID: uuid.New(), Operation: op, Kind: KindOK}
}

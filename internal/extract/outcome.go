package extract

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrEmptyCompletion is an attempt failure: the backend returned nothing.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrMalformed is an attempt failure: the completion is not valid JSON
	// of the expected shape.
	ErrMalformed = errors.New("malformed completion")

	// ErrAttemptTimeout is an attempt failure: one attempt outran its deadline.
	ErrAttemptTimeout = errors.New("completion attempt timed out")

	// ErrExhausted means every attempt failed for one unit of text.
	ErrExhausted = errors.New("extraction attempts exhausted")
)

// Reason tags why an Outcome carries no data.
type Reason string

const (
	ReasonNone Reason = ""
	// ReasonExhausted: every attempt ended in an empty or malformed completion.
	ReasonExhausted Reason = "exhausted"
	// ReasonBackend: attempts ran out and the last one failed in the backend.
	ReasonBackend Reason = "backend-error"
	// ReasonAborted: a terminal error stopped the loop without retrying.
	ReasonAborted Reason = "aborted"
)

// Outcome is the result of one extraction: validated JSON or a failure reason.
type Outcome struct {
	Data     json.RawMessage
	Reason   Reason
	Attempts int
	Cause    error
}

// OK reports whether the outcome carries data.
func (o Outcome) OK() bool {
	return o.Reason == ReasonNone && o.Data != nil
}

// Decode unmarshals the validated JSON into v.
func (o Outcome) Decode(v any) error {
	if !o.OK() {
		return o.Err()
	}
	return json.Unmarshal(o.Data, v)
}

// Err returns nil on success. Exhausted and backend outcomes wrap ErrExhausted
// and the last attempt's cause; aborted outcomes return the cause itself.
func (o Outcome) Err() error {
	switch {
	case o.OK():
		return nil
	case o.Reason == ReasonAborted:
		return o.Cause
	case o.Cause != nil:
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, o.Attempts, o.Cause)
	default:
		return fmt.Errorf("%w after %d attempts", ErrExhausted, o.Attempts)
	}
}

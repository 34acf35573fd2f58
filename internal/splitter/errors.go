package splitter

import "fmt"

// ResolveErrorKind classifies why a resolve call failed.
type ResolveErrorKind int

const (
	// KindTransport covers network failures and timeouts.
	KindTransport ResolveErrorKind = iota

	// KindRejected means the service answered with a non-success status.
	KindRejected

	// KindEmpty means zero names were requested.
	KindEmpty
)

// String returns a short name for the kind.
func (k ResolveErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ResolveError is the error contract for resolvers: every failed Resolve
// call, whatever the backend, reports one of the three kinds. Match with
// errors.As to inspect the kind.
type ResolveError struct {
	// Kind classifies the failure.
	Kind ResolveErrorKind

	// Message is a human-readable description, typically the service's
	// own failure message for KindRejected.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ResolveError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("resolve %s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("resolve %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %s", e.Kind)
}

// Unwrap returns the underlying cause.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

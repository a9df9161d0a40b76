package query

import (
	"errors"
	"fmt"
)

// Kind classifies a query failure.
type Kind int

const (
	KindNetwork Kind = iota + 1 // transport failure, offline
	KindTimeout                 // request deadline fired
	KindHTTP                    // non-2xx status
	KindShape                   // envelope missing success/data or malformed
	KindParse                   // JSON decode failure
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindShape:
		return "shape"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the typed failure the client rejects callers with. The
// client never swallows a failure: the pending entry is removed and
// every joined caller receives the same *Error.
type Error struct {
	Kind     Kind
	Endpoint string
	Status   int // HTTP status, when Kind is KindHTTP
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("query %s: %s (status %d): %v", e.Endpoint, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("query %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from any error chain.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return 0
}

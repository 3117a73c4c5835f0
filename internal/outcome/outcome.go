// Package outcome defines the classified, timed result of a single request attempt.
package outcome

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind discriminates the three mutually exclusive outcome classes.
type Kind int

const (
	// Success is a response with status 200.
	Success Kind = iota
	// Failure is a well-formed response with any other status.
	Failure
	// TransportError means no response was obtained.
	TransportError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case TransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TransportStatus is the status sentinel carried by transport errors. It is
// never a real HTTP status.
const TransportStatus = 0

var (
	// ErrInvocationPanic marks a transport error produced from a recovered panic.
	ErrInvocationPanic = errors.New("invocation panicked")
	// ErrNotAdmitted marks work items that were never started because the run was interrupted.
	ErrNotAdmitted = errors.New("run interrupted before admission")
)

// Outcome is the result of one invocation. Build it with NewSuccess,
// NewFailure or NewTransportError; the zero value is not meaningful.
type Outcome struct {
	ItemID     string
	Kind       Kind
	Latency    time.Duration
	StatusCode int    // 200 for Success, the response status for Failure, 0 for TransportError
	Cause      string // error text, TransportError only
	Reason     string // grouped cause name, TransportError only
}

func NewSuccess(itemID string, latency time.Duration) Outcome {
	return Outcome{ItemID: itemID, Kind: Success, Latency: latency, StatusCode: http.StatusOK}
}

func NewFailure(itemID string, latency time.Duration, status int) Outcome {
	return Outcome{ItemID: itemID, Kind: Failure, Latency: latency, StatusCode: status}
}

// NewTransportError records an attempt that never produced a response.
func NewTransportError(itemID string, latency time.Duration, err error) Outcome {
	if err == nil {
		err = errors.New("unknown transport error")
	}
	return Outcome{
		ItemID:     itemID,
		Kind:       TransportError,
		Latency:    latency,
		StatusCode: TransportStatus,
		Cause:      err.Error(),
		Reason:     CauseName(err),
	}
}

// Classify maps a received HTTP status to Success or Failure.
func Classify(itemID string, latency time.Duration, status int) Outcome {
	if status == http.StatusOK {
		return NewSuccess(itemID, latency)
	}
	return NewFailure(itemID, latency, status)
}

// Err returns nil for a success and a descriptive error otherwise.
func (o Outcome) Err() error {
	switch o.Kind {
	case Success:
		return nil
	case Failure:
		return &HTTPError{StatusCode: o.StatusCode}
	default:
		return errors.New(o.Cause)
	}
}

// HTTPError represents a response whose status is not 200.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

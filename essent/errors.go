package essent

import "fmt"

// TransportError means the request never produced a usable response:
// the connection failed, timed out, or the API answered with a non-2xx
// status. The client never retries, that policy belongs to the caller.
type TransportError struct {
	StatusCode int // zero when the request itself failed
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("essent: unexpected status %d from API", e.StatusCode)
	}
	return fmt.Sprintf("essent: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the API answered but the body was not JSON, or it
// carries neither an electricity nor a gas section. Callers can tell
// "nothing answered" (TransportError) apart from "something answered
// with garbage" with errors.As.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("essent: cannot decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

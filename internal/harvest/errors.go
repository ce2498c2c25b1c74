package harvest

import "fmt"

// FetchErrorKind classifies why a fetch exhausted its retry budget.
type FetchErrorKind string

const (
	// FetchTimeout marks deadline or timeout failures.
	FetchTimeout FetchErrorKind = "timeout"
	// FetchHTTPStatus marks non-200 responses.
	FetchHTTPStatus FetchErrorKind = "http_status"
	// FetchTransport marks connection-level failures.
	FetchTransport FetchErrorKind = "transport"
)

// FetchError reports a fetch that failed after all retries. It is recorded
// in statistics, never retried further up the stack.
type FetchError struct {
	Kind     FetchErrorKind
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s) after %d attempts: %v", e.Kind, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

package source

// Status classifies the outcome of a single fetch attempt.
type Status int

const (
	// StatusSuccess carries new display text.
	StatusSuccess Status = iota
	// StatusEmpty means the source had nothing to display; the previous text
	// is kept and retry state is untouched.
	StatusEmpty
	// StatusParseFailure means the payload arrived but did not match the
	// configured shape.
	StatusParseFailure
	// StatusTransportFailure means the payload never arrived (timeout, DNS,
	// connection refused, open circuit breaker).
	StatusTransportFailure
)

// String returns the metrics label for the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusParseFailure:
		return "parse_failure"
	case StatusTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one fetch attempt. It is produced once per attempt
// and never retained by the source.
type Result struct {
	Status Status
	Text   string
	Err    error
}

// Success builds a result carrying new display text.
func Success(text string) Result {
	return Result{Status: StatusSuccess, Text: text}
}

// Empty builds a no-op result.
func Empty() Result {
	return Result{Status: StatusEmpty}
}

// ParseFailure builds a result for a payload shape mismatch.
func ParseFailure(err error) Result {
	return Result{Status: StatusParseFailure, Err: err}
}

// TransportFailure builds a result for a network-level failure.
func TransportFailure(err error) Result {
	return Result{Status: StatusTransportFailure, Err: err}
}

// Failed reports whether the result should drive retry backoff.
func (r Result) Failed() bool {
	return r.Status == StatusParseFailure || r.Status == StatusTransportFailure
}

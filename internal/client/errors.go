package client

// ErrorKind classifies what went wrong with a portal API call.
type ErrorKind string

const (
	// KindValidation marks input rejected before any request was sent.
	KindValidation ErrorKind = "validation"
	// KindTransport marks network failures and timeouts.
	KindTransport ErrorKind = "transport"
	// KindServer marks requests the server answered with a failure envelope.
	KindServer ErrorKind = "server"
	// KindUnauthorized marks rejected credentials or an expired session.
	KindUnauthorized ErrorKind = "unauthorized"
)

// Error is the normalized failure surfaced to callers. Message is always
// safe to display to the operator as-is.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func validationErr(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func transportErr() *Error {
	return &Error{Kind: KindTransport, Message: "Server is not responding. Please try again later."}
}

func serverErr(message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Kind: KindServer, Message: message}
}

// KindOf returns the kind of a client error, or empty for other errors.
func KindOf(err error) ErrorKind {
	if cerr, ok := err.(*Error); ok {
		return cerr.Kind
	}
	return ""
}

package domain

// Status distinguishes a successful service result from a failed one.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

// Response is the outcome of one service operation: a status plus the
// human-readable payload that goes back on the wire. Error responses
// carry a fixed message from the wire contract, never an internal cause.
type Response struct {
	Status  Status
	Message string
}

// OK builds a success response.
func OK(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

// Err builds an error response.
func Err(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// IsError reports whether the response carries a failure.
func (r Response) IsError() bool {
	return r.Status == StatusError
}

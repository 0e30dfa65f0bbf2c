package backend

import "errors"

// unknownMessage is what the user sees when a failure carries no
// server-supplied message (transport errors, malformed responses).
const unknownMessage = "Unknown error"

// Error is a failure reported by the backend as an {error: "..."} body.
// The message is surfaced to the user verbatim.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// Message extracts the user-facing text from any error returned by a Client.
func Message(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return unknownMessage
}

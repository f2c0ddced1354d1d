package constants

import "net/http"

// CodedError is an error carrying the HTTP status the API layer should
// answer with. Services wrap these with fmt.Errorf("...: %w", err) so the
// error handler can find the code by unwrapping.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound       = NewCodedError(http.StatusNotFound, "not found")
	ErrUnauthorized     = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrBadRequest       = NewCodedError(http.StatusBadRequest, "bad request")
	ErrDataFormat       = NewCodedError(http.StatusUnprocessableEntity, "malformed source data")
	ErrStoreUnavailable = NewCodedError(http.StatusServiceUnavailable, "store unavailable")
)

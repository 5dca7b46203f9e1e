package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST    ErrCode = "REQUEST_FAILED"
	BAD_REQUEST       ErrCode = "FAILED_TO_DECODE"
	VALIDATION_FAILED ErrCode = "VALIDATION_FAILED"
	NOT_FOUND         ErrCode = "NOT_FOUND"
	DUPLICATE_SLOT    ErrCode = "DUPLICATE_SLOT"
	UNAUTHORIZED      ErrCode = "UNAUTHORIZED"
	FORBIDDEN         ErrCode = "FORBIDDEN"
	TOO_MANY_REQUESTS ErrCode = "TOO_MANY_REQUESTS"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateSlot = errors.New("slot already taken")
	ErrPersistence   = errors.New("persistence failure")
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

func Error(code ErrCode, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    string(code),
			Message: msg,
		},
	}
}

// Fail writes status and an error body.
func Fail(w http.ResponseWriter, r *http.Request, status int, code ErrCode, msg string) {
	w.WriteHeader(status)
	render.JSON(w, r, Error(code, msg))
}

// FailFrom maps the error taxonomy onto a status code and body.
// fallback is the message used for unexpected failures.
func FailFrom(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		Fail(w, r, http.StatusBadRequest, VALIDATION_FAILED, validationMessage(err))
	case errors.Is(err, ErrDuplicateSlot):
		Fail(w, r, http.StatusConflict, DUPLICATE_SLOT, "slot already taken, please pick another time")
	case errors.Is(err, ErrNotFound):
		Fail(w, r, http.StatusNotFound, NOT_FOUND, "resource not found")
	case errors.Is(err, ErrForbidden):
		Fail(w, r, http.StatusForbidden, FORBIDDEN, "forbidden")
	case errors.Is(err, ErrUnauthorized):
		Fail(w, r, http.StatusUnauthorized, UNAUTHORIZED, "unauthorized")
	default:
		Fail(w, r, http.StatusInternalServerError, FAILED_REQUEST, fallback)
	}
}

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func validationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "invalid request"
}

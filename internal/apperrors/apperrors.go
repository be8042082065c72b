package apperrors

import (
	"errors"
	"net/http"
)

// Error is the taxonomy every boundary operation reports through. Store and
// primitive failures are wrapped into ErrInternal before they reach a
// response; internals never leak into the body.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrValidation        = &Error{Code: "VALIDATION", Status: http.StatusBadRequest, Message: "Invalid request"}
	ErrUnauthorized      = &Error{Code: "UNAUTHORIZED", Status: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrConflict          = &Error{Code: "CONFLICT", Status: http.StatusBadRequest, Message: "Already exists"}
	ErrNotFound          = &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: "Not found"}
	ErrInternal          = &Error{Code: "INTERNAL", Status: http.StatusInternalServerError, Message: "Internal server error"}
	ErrLinkNotFound      = &Error{Code: "LINK_NOT_FOUND", Status: http.StatusNotFound, Message: "Link not found"}
	ErrContentNotFound   = &Error{Code: "CONTENT_NOT_FOUND", Status: http.StatusNotFound, Message: "Content not found"}
	ErrInvalidScope      = &Error{Code: "INVALID_SCOPE", Status: http.StatusBadRequest, Message: "Invalid share scope"}
	ErrInvalidAccessType = &Error{Code: "INVALID_ACCESS_TYPE", Status: http.StatusBadRequest, Message: "Invalid access type"}
	ErrNothingToRevoke   = &Error{Code: "NOTHING_TO_REVOKE", Status: http.StatusBadRequest, Message: "Nothing to revoke"}
)

// WithMessage returns a copy of e carrying a request-specific message.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Status: e.Status, Message: message}
}

// Is lets wrapped copies produced by WithMessage match their sentinel.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}

// From extracts the taxonomy error wrapped in err, falling back to
// ErrInternal for anything unclassified.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

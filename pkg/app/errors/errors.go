// Package errors classifies service failures so transports can map them to
// status codes without knowing the service internals.
package errors

import (
	"errors"
	"net/http"
)

// Category is the class of a service failure
type Category int

const (
	CategoryNoError Category = iota
	// CategoryDataError is a malformed or invalid client request.
	CategoryDataError
	// CategoryUnauthorized is a request without valid credentials.
	CategoryUnauthorized
	// CategoryForbidden is a request whose credentials do not grant access.
	CategoryForbidden
	// CategoryResourceNotFound is a lookup of an unknown record.
	CategoryResourceNotFound
	// CategoryNotSupported is a request for an operation the bridge does not offer.
	CategoryNotSupported
	// CategoryDataConflict is a request that collides with existing state.
	CategoryDataConflict
	// CategoryDependencyFailure is a chain node or other upstream answering with an error.
	CategoryDependencyFailure
	// CategoryGeneralError is an unexpected internal failure.
	CategoryGeneralError
	// CategoryRecovering is a transient upstream outage the client may retry.
	CategoryRecovering
)

var categoryNames = map[Category]string{
	CategoryNoError:           "CategoryNoError",
	CategoryDataError:         "CategoryDataError",
	CategoryUnauthorized:      "CategoryUnauthorized",
	CategoryForbidden:         "CategoryForbidden",
	CategoryResourceNotFound:  "CategoryResourceNotFound",
	CategoryNotSupported:      "CategoryNotSupported",
	CategoryDataConflict:      "CategoryDataConflict",
	CategoryDependencyFailure: "CategoryDependencyFailure",
	CategoryRecovering:        "CategoryRecovering",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "CategoryGeneralError"
}

// ServiceError carries a client-safe message next to the underlying cause.
// Message is returned to the caller; Err is only logged.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is reports whether err is a ServiceError of the given category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be treated as a server-side failure
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Category >= CategoryDependencyFailure
	}
	return true
}

func newError(cat Category, err error, message, fallback string) error {
	if err == nil {
		err = errors.New(fallback)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error"
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "Internal Server Error", "internal server error")
}

// ResourceNotFoundError reports an unknown record
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message, "resource not found: "+message)
}

// BadRequestError reports a request that failed validation
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message, "bad request: "+message)
}

// NotSupportedError reports an operation the bridge does not offer
func NotSupportedError(err error, message string) error {
	return newError(CategoryNotSupported, err, message, "not supported: "+message)
}

// ForbiddenError reports credentials that do not grant access
func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, message, "request forbidden")
}

// UnAuthorizedError reports missing or invalid credentials
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message, "unauthorized")
}

// ConflictError reports a collision with existing state
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message, "conflict")
}

// DependencyError reports an upstream that answered with an error
func DependencyError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message, "dependency failure: "+message)
}

// UnavailableError reports a transient upstream outage
func UnavailableError(err error, message string) error {
	return newError(CategoryRecovering, err, message, "service unavailable: "+message)
}

// StatusCode maps the category to an HTTP status
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryForbidden:
		return http.StatusForbidden
	case CategoryResourceNotFound:
		return http.StatusNotFound
	case CategoryNotSupported:
		return http.StatusMethodNotAllowed
	case CategoryDataConflict:
		return http.StatusConflict
	case CategoryDependencyFailure:
		return http.StatusBadGateway
	case CategoryRecovering:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
